package entity

type PaymentEvent string

const (
	EventInitiate       PaymentEvent = "initiate"
	EventGatewayApprove PaymentEvent = "gateway_approve"
	EventGatewayReject  PaymentEvent = "gateway_reject"
	EventConfirm        PaymentEvent = "confirm"
	EventCancel         PaymentEvent = "cancel"
	EventRetry          PaymentEvent = "retry"
)

// NextStatus resolves the status transition for an event. Terminal
// statuses (verified, cancelled) accept no further events; admin
// cancellation is allowed from every non-terminal status.
func NextStatus(current PaymentStatusValue, event PaymentEvent) (PaymentStatusValue, bool) {
	if current.Terminal() {
		return current, false
	}
	if event == EventCancel {
		return PaymentStatusCancelled, true
	}

	switch {
	case current == PaymentStatusPending && event == EventInitiate:
		return PaymentStatusProcessing, true
	case current == PaymentStatusProcessing && event == EventGatewayApprove:
		return PaymentStatusSuccess, true
	case current == PaymentStatusProcessing && event == EventGatewayReject:
		return PaymentStatusFailed, true
	case current == PaymentStatusSuccess && event == EventConfirm:
		return PaymentStatusVerified, true
	case current == PaymentStatusFailed && event == EventRetry:
		return PaymentStatusProcessing, true
	default:
		return current, false
	}
}
