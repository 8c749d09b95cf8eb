package repository

// Repositories agrupa los puertos de persistencia de un mismo Record Store (memoria, archivo o PostgreSQL).
type Repositories struct {
	Users         UserRepository
	Roles         RoleRepository
	Clients       ClientRepository
	Invoices      InvoiceRepository
	Settings      SettingsRepository
	Accounts      BankAccountRepository
	Transactions  TransactionRepository
	Payments      PaymentRepository
	Alerts        SecurityAlertRepository
	Leaves        LeaveRequestRepository
	Announcements AnnouncementRepository
	Tx            BankingTxRunner
}
