package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Factories() FactoryRepository
	Orders() OrderRepository
	Confirmations() ConfirmationRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	Audit() AuditRepository
}
