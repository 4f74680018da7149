package regularization

import (
	"fmt"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

// Correction is the attendance change a request asks for. Each request type
// maps to one implementation, so the required fields are checked once when
// the correction is built.
type Correction interface {
	Type() RequestType
	// LoginTime is the login to write, or nil to keep the stored one.
	LoginTime() *string
	// LogoutTime is the logout to write, or nil to keep the stored one.
	LogoutTime() *string
}

type CheckInCorrection struct {
	In string
}

func (c CheckInCorrection) Type() RequestType   { return RequestTypeCheckIn }
func (c CheckInCorrection) LoginTime() *string  { return &c.In }
func (c CheckInCorrection) LogoutTime() *string { return nil }

type CheckOutCorrection struct {
	Out string
}

func (c CheckOutCorrection) Type() RequestType   { return RequestTypeCheckOut }
func (c CheckOutCorrection) LoginTime() *string  { return nil }
func (c CheckOutCorrection) LogoutTime() *string { return &c.Out }

type FullDayCorrection struct {
	In  string
	Out string
}

func (c FullDayCorrection) Type() RequestType   { return RequestTypeBoth }
func (c FullDayCorrection) LoginTime() *string  { return &c.In }
func (c FullDayCorrection) LogoutTime() *string { return &c.Out }

// NewCorrection validates the times required by requestType and builds the correction.
func NewCorrection(requestType RequestType, checkIn, checkOut string) (Correction, error) {
	var errs validator.ValidationErrors

	checkClock := func(field, value string) {
		if validator.IsEmpty(value) {
			errs.Add(field, fmt.Sprintf("%s is required for request type %s", field, requestType))
		} else if !validator.IsValidClock(value) {
			errs.Add(field, fmt.Sprintf("%s must be in HH:MM:SS format", field))
		}
	}

	switch requestType {
	case RequestTypeCheckIn:
		checkClock("requested_check_in_time", checkIn)
		if err := errs.Err(); err != nil {
			return nil, err
		}
		return CheckInCorrection{In: checkIn}, nil

	case RequestTypeCheckOut:
		checkClock("requested_check_out_time", checkOut)
		if err := errs.Err(); err != nil {
			return nil, err
		}
		return CheckOutCorrection{Out: checkOut}, nil

	case RequestTypeBoth:
		checkClock("requested_check_in_time", checkIn)
		checkClock("requested_check_out_time", checkOut)
		if err := errs.Err(); err != nil {
			return nil, err
		}
		// HH:MM:SS compares lexically
		if checkOut < checkIn {
			errs.Add("requested_check_out_time", "requested_check_out_time must not be earlier than requested_check_in_time")
			return nil, errs
		}
		return FullDayCorrection{In: checkIn, Out: checkOut}, nil

	default:
		errs.Add("request_type", "request_type must be one of: checkin, checkout, both")
		return nil, errs
	}
}
