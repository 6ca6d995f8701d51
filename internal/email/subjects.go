package email

const (
	subjectPaymentReceiptFmt  = "Payment received for invoice %s"
	subjectRefundInitiatedFmt = "Refund initiated for invoice %s"
	subjectRefundCompletedFmt = "Refund completed for invoice %s"
	subjectOverdueNoticeFmt   = "Invoice %s is overdue"
	subjectMemberInviteFmt    = "You have been invited to %s"
)
