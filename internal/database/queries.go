package database

const (
	// Customer queries
	queryInsertCustomer = `
		INSERT INTO customers (id, name, email, phone, username, password_hash)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetCustomerByUsername = `
		SELECT id, name, email, phone, username, password_hash, created_at, updated_at
		FROM customers
		WHERE username = ? COLLATE NOCASE`

	queryGetCustomerByEmail = `
		SELECT id, name, email, phone, username, password_hash, created_at, updated_at
		FROM customers
		WHERE email = ?
		LIMIT 1`

	queryListCustomers = `
		SELECT id, name, email, phone, username, password_hash, created_at, updated_at
		FROM customers
		ORDER BY created_at`

	queryUsernameExists = `
		SELECT 1 FROM customers WHERE username = ? COLLATE NOCASE LIMIT 1`

	queryUpdatePassword = `
		UPDATE customers
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE username = ? COLLATE NOCASE`

	// Dues ledger queries
	queryInsertDue = `
		INSERT INTO dues (id, username, customer, balance, version)
		VALUES (?, ?, ?, ?, 1)`

	queryGetDue = `
		SELECT id, username, customer, balance, version, updated_at
		FROM dues
		WHERE username = ? COLLATE NOCASE`

	queryListDues = `
		SELECT id, username, customer, balance, version, updated_at
		FROM dues
		ORDER BY username`

	queryUpdateDueBalance = `
		UPDATE dues
		SET balance = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE username = ? COLLATE NOCASE AND version = ?`

	// Order queries
	queryInsertOrder = `
		INSERT INTO orders (order_id, username, customer, amount, mode, status)
		VALUES (?, ?, ?, ?, ?, 'requested')`

	queryGetOrder = `
		SELECT order_id, username, customer, amount, mode, status, created_at, confirmed_at
		FROM orders
		WHERE order_id = ?`

	queryConfirmOrder = `
		UPDATE orders
		SET status = 'confirmed', confirmed_at = ?
		WHERE order_id = ? AND status = 'requested'`

	// Payment queries
	queryCheckDuplicateOrder = `
		SELECT id FROM payments WHERE order_id = ? AND order_id != '' LIMIT 1`

	queryInsertPayment = `
		INSERT INTO payments (id, date, username, customer, amount, order_id, status, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryListPayments = `
		SELECT id, date, username, customer, amount, order_id, status, mode
		FROM payments
		ORDER BY date DESC
		LIMIT ? OFFSET ?`

	queryListPaymentsAsc = `
		SELECT id, date, username, customer, amount, order_id, status, mode
		FROM payments
		ORDER BY date`

	// Audit queries
	queryInsertAudit = `
		INSERT INTO audit_log (id, timestamp, action, details)
		VALUES (?, ?, ?, ?)`

	queryListAudit = `
		SELECT id, timestamp, action, details
		FROM audit_log
		ORDER BY timestamp DESC
		LIMIT ?`

	queryListAuditAsc = `
		SELECT id, timestamp, action, details
		FROM audit_log
		ORDER BY timestamp`
)
