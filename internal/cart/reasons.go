package cart

import pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"

// Reason explains why a line was rejected. It travels in error details under "reason".
type Reason string

const (
	ReasonInsufficientStock   Reason = "InsufficientStock"
	ReasonItemNotFound        Reason = "ItemNotFound"
	ReasonInvalidBarcode      Reason = "InvalidBarcode"
	ReasonMissingName         Reason = "MissingName"
	ReasonNonPositiveQuantity Reason = "NonPositiveQuantity"
)

var reasonCodes = map[Reason]pkgerrors.Code{
	ReasonInsufficientStock:   pkgerrors.CodeInsufficientStock,
	ReasonItemNotFound:        pkgerrors.CodeNotFound,
	ReasonInvalidBarcode:      pkgerrors.CodeValidation,
	ReasonMissingName:         pkgerrors.CodeValidation,
	ReasonNonPositiveQuantity: pkgerrors.CodeValidation,
}

func reject(reason Reason, message string, extra map[string]any) *pkgerrors.Error {
	details := map[string]any{"reason": string(reason)}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(reasonCodes[reason], message).WithDetails(details)
}

// ReasonOf extracts the rejection reason from err, or "" when there is none.
func ReasonOf(err error) Reason {
	typed := pkgerrors.As(err)
	if typed == nil {
		return ""
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return ""
	}
	reason, _ := details["reason"].(string)
	return Reason(reason)
}
