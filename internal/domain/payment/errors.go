package payment

import (
	"github.com/uniedit/payrecon/internal/model"
	"github.com/uniedit/payrecon/internal/utils/errors"
)

func errActorRequired() error {
	return errors.Forbidden("authenticated actor required")
}

func errNotOwner() error {
	return errors.Forbidden("payment belongs to another user")
}

func errAdminOnly() error {
	return errors.Forbidden("refunds require the admin role")
}

func errInvalidAmount() error {
	return errors.ValidationError("amount must be greater than zero")
}

func errInvalidSignature() error {
	return errors.ValidationError("invalid signature")
}

func errOrderSettled() error {
	return errors.Conflict("order already has a completed payment")
}

func errNotRefundable(status model.PaymentStatus) error {
	return errors.Validationf("payment is %s and cannot be refunded", status)
}
