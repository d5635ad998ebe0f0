package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"ntf/internal/client"
	"ntf/internal/model"
)

func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, api, logger := setup(rootOpts, cmd)
			logger.Info("running list", zap.String("url", rootOpts.URL))

			notifications, err := api.ListNotifications(cmd.Context())
			if err != nil {
				logger.Debug("list failed", zap.Error(err))
				return formatter.Fail(err)
			}
			return formatter.Success("notifications = ", notifications)
		},
	}
}

func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <message>",
		Short: "Create a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, api, logger := setup(rootOpts, cmd)
			logger.Info("running create", zap.String("url", rootOpts.URL), zap.Int("message_length", len(args[0])))

			notification, err := api.CreateNotification(cmd.Context(), args[0])
			if err != nil {
				logger.Debug("create failed", zap.Error(err))
				return formatter.Fail(err)
			}
			return formatter.Success("created: ", notification)
		},
	}
}

func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return newResourceCommand(rootOpts, "get", "Show a notification", "", func(api *client.Client) resourceCall {
		return api.GetNotification
	})
}

func NewAckCommand(rootOpts *RootOptions) *cobra.Command {
	return newResourceCommand(rootOpts, "ack", "Acknowledge a notification", "acknowledged: ", func(api *client.Client) resourceCall {
		return api.AckNotification
	})
}

func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return newResourceCommand(rootOpts, "delete", "Delete a notification", "deleted: ", func(api *client.Client) resourceCall {
		return api.DeleteNotification
	})
}

type resourceCall func(ctx context.Context, id uint64) (model.Notification, error)

func newResourceCommand(rootOpts *RootOptions, name, short, label string, pick func(*client.Client) resourceCall) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, api, logger := setup(rootOpts, cmd)

			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return formatter.Fail(fmt.Errorf("invalid notification id %q", args[0]))
			}
			logger.Info("running "+name, zap.String("url", rootOpts.URL), zap.Uint64("id", id))

			notification, err := pick(api)(cmd.Context(), id)
			if err != nil {
				logger.Debug(name+" failed", zap.Uint64("id", id), zap.Error(err))
				return formatter.Fail(err)
			}
			return formatter.Success(label, notification)
		},
	}
}

func setup(opts *RootOptions, cmd *cobra.Command) (*OutputFormatter, *client.Client, *zap.Logger) {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter, client.New(opts.URL), newLogger(opts, cmd.ErrOrStderr())
}
