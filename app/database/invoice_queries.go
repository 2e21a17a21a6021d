package database

import (
	"database/sql"
	"fmt"

	"github.com/LiveScriptAI/clock-work-ai-sub000/app/models"
)

// CreateInvoiceRecipient saves a new bill-to party for the user.
func CreateInvoiceRecipient(db *sql.DB, r *models.InvoiceRecipient) error {
	query := `INSERT INTO invoice_recipients (user_id, name, email, address_line1, address_line2,
	              city, region, postal_code, country)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, r.UserID, r.Name, r.Email, r.AddressLine1, r.AddressLine2,
		r.City, r.Region, r.PostalCode, r.Country).
		Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// GetInvoiceRecipients lists the user's recipients, most recent first.
func GetInvoiceRecipients(db *sql.DB, userID string) ([]*models.InvoiceRecipient, error) {
	query := `SELECT id, user_id, name, email, address_line1, address_line2,
	                 city, region, postal_code, country, created_at, updated_at
	          FROM invoice_recipients
	          WHERE user_id = $1 AND deleted_at IS NULL
	          ORDER BY updated_at DESC`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipients := make([]*models.InvoiceRecipient, 0)
	for rows.Next() {
		r := &models.InvoiceRecipient{}
		err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Email, &r.AddressLine1, &r.AddressLine2,
			&r.City, &r.Region, &r.PostalCode, &r.Country, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, r)
	}

	return recipients, rows.Err()
}

// GetInvoiceRecipientByID fetches one recipient. Returns nil, nil when not
// found or owned by someone else.
func GetInvoiceRecipientByID(db *sql.DB, userID, id string) (*models.InvoiceRecipient, error) {
	query := `SELECT id, user_id, name, email, address_line1, address_line2,
	                 city, region, postal_code, country, created_at, updated_at
	          FROM invoice_recipients
	          WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`

	r := &models.InvoiceRecipient{}
	err := db.QueryRow(query, id, userID).Scan(
		&r.ID, &r.UserID, &r.Name, &r.Email, &r.AddressLine1, &r.AddressLine2,
		&r.City, &r.Region, &r.PostalCode, &r.Country, &r.CreatedAt, &r.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateInvoiceRecipient rewrites a recipient's fields.
func UpdateInvoiceRecipient(db *sql.DB, r *models.InvoiceRecipient) error {
	query := `UPDATE invoice_recipients
			  SET name = $1, email = $2, address_line1 = $3, address_line2 = $4,
			      city = $5, region = $6, postal_code = $7, country = $8, updated_at = NOW()
			  WHERE id = $9 AND user_id = $10 AND deleted_at IS NULL`

	res, err := db.Exec(query, r.Name, r.Email, r.AddressLine1, r.AddressLine2,
		r.City, r.Region, r.PostalCode, r.Country, r.ID, r.UserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("recipient not found")
	}
	return nil
}

// DeleteInvoiceRecipient soft-deletes a recipient.
func DeleteInvoiceRecipient(db *sql.DB, userID, id string) error {
	query := `UPDATE invoice_recipients SET deleted_at = NOW()
			  WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	_, err := db.Exec(query, id, userID)
	return err
}

// GetInvoiceSettings returns the user's sender block, inserting defaults on
// first access.
func GetInvoiceSettings(db *sql.DB, userID string) (*models.InvoiceSettings, error) {
	query := `INSERT INTO invoice_settings (user_id) VALUES ($1)
			  ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
			  RETURNING user_id, business_name, sender_email, address_line1, address_line2,
			            city, region, postal_code, country, tax_rate, next_number, updated_at`

	s := &models.InvoiceSettings{}
	err := db.QueryRow(query, userID).Scan(
		&s.UserID, &s.BusinessName, &s.SenderEmail, &s.AddressLine1, &s.AddressLine2,
		&s.City, &s.Region, &s.PostalCode, &s.Country, &s.TaxRate, &s.NextNumber, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateInvoiceSettings saves the sender block and tax rate.
func UpdateInvoiceSettings(db *sql.DB, s *models.InvoiceSettings) error {
	query := `INSERT INTO invoice_settings (user_id, business_name, sender_email, address_line1, address_line2,
	              city, region, postal_code, country, tax_rate, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			  ON CONFLICT (user_id)
			  DO UPDATE SET business_name = EXCLUDED.business_name,
			                sender_email = EXCLUDED.sender_email,
			                address_line1 = EXCLUDED.address_line1,
			                address_line2 = EXCLUDED.address_line2,
			                city = EXCLUDED.city,
			                region = EXCLUDED.region,
			                postal_code = EXCLUDED.postal_code,
			                country = EXCLUDED.country,
			                tax_rate = EXCLUDED.tax_rate,
			                updated_at = NOW()`

	_, err := db.Exec(query, s.UserID, s.BusinessName, s.SenderEmail, s.AddressLine1, s.AddressLine2,
		s.City, s.Region, s.PostalCode, s.Country, s.TaxRate)
	return err
}

// NextInvoiceNumber returns the current invoice number and advances the
// counter atomically.
func NextInvoiceNumber(db *sql.DB, userID string) (int, error) {
	query := `UPDATE invoice_settings SET next_number = next_number + 1, updated_at = NOW()
			  WHERE user_id = $1
			  RETURNING next_number - 1`

	var n int
	err := db.QueryRow(query, userID).Scan(&n)
	if err == sql.ErrNoRows {
		// Settings row not created yet; start the sequence.
		if _, err := db.Exec(`INSERT INTO invoice_settings (user_id, next_number) VALUES ($1, 2)
			ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
			return 0, err
		}
		return 1, nil
	}
	return n, err
}
