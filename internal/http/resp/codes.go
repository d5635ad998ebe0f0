package resp

// Application codes carried in dto.ErrorResponse and dto.StatusResponse.
const (
	CodeQueued        = 20200
	CodeBadRequest    = 40000
	CodeNotFound      = 40400
	CodeInternalError = 50000
)
