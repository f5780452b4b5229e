package errs

const (
	ErrCode_OK       = 0
	ErrCode_Unknown  = 1
	ErrCode_Contract = 2
	ErrCode_Config   = 3
	ErrCode_Protocol = 4
	ErrCode_Capacity = 5
)

var (
	Unknown  = CreateCodeError(ErrCode_Unknown, "UNKNOWN")
	Contract = CreateCodeError(ErrCode_Contract, "CONTRACT_VIOLATION")
	Config   = CreateCodeError(ErrCode_Config, "INVALID_CONFIG")
	Protocol = CreateCodeError(ErrCode_Protocol, "PROTOCOL")
	Capacity = CreateCodeError(ErrCode_Capacity, "CAPACITY")
)
