package transport

import "fmt"

// ResultCode is the Diameter Result-Code value carried in answers.
type ResultCode uint32

const (
	ResultCodeSuccess ResultCode = 2001

	ResultCodeCommandUnsupported ResultCode = 3001
	ResultCodeUnableToDeliver    ResultCode = 3002
	ResultCodeTooBusy            ResultCode = 3004

	ResultCodeEndUserServiceDenied ResultCode = 4010
	ResultCodeCreditLimitReached   ResultCode = 4012

	ResultCodeAVPUnsupported   ResultCode = 5001
	ResultCodeUnknownSessionID ResultCode = 5002
	ResultCodeMissingAVP       ResultCode = 5005
	ResultCodeUnableToComply   ResultCode = 5012
	ResultCodeUserUnknown      ResultCode = 5030
	ResultCodeRatingFailed     ResultCode = 5031
)

// IsSuccess reports whether the code is in the 2xxx success class.
func (r ResultCode) IsSuccess() bool {
	return r >= 2000 && r < 3000
}

func (r ResultCode) String() string {
	switch r {
	case ResultCodeSuccess:
		return "DIAMETER_SUCCESS"
	case ResultCodeCommandUnsupported:
		return "DIAMETER_COMMAND_UNSUPPORTED"
	case ResultCodeUnableToDeliver:
		return "DIAMETER_UNABLE_TO_DELIVER"
	case ResultCodeTooBusy:
		return "DIAMETER_TOO_BUSY"
	case ResultCodeEndUserServiceDenied:
		return "DIAMETER_END_USER_SERVICE_DENIED"
	case ResultCodeCreditLimitReached:
		return "DIAMETER_CREDIT_LIMIT_REACHED"
	case ResultCodeAVPUnsupported:
		return "DIAMETER_AVP_UNSUPPORTED"
	case ResultCodeUnknownSessionID:
		return "DIAMETER_UNKNOWN_SESSION_ID"
	case ResultCodeMissingAVP:
		return "DIAMETER_MISSING_AVP"
	case ResultCodeUnableToComply:
		return "DIAMETER_UNABLE_TO_COMPLY"
	case ResultCodeUserUnknown:
		return "DIAMETER_USER_UNKNOWN"
	case ResultCodeRatingFailed:
		return "DIAMETER_RATING_FAILED"
	default:
		return fmt.Sprintf("RESULT_CODE_%d", uint32(r))
	}
}
