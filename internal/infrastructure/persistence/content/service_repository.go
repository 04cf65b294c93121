package content

import (
	"database/sql"
	"fmt"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/interfaces"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
)

// ServiceRepository persists the priced service catalog. Payment URLs are
// encrypted before they touch the database and decrypted on the way out.
type ServiceRepository struct {
	db     *sql.DB
	cache  interfaces.ContentCache
	aesKey string
}

func NewServiceRepository(db *sql.DB, cache interfaces.ContentCache, aesKey string) *ServiceRepository {
	return &ServiceRepository{
		db:     db,
		cache:  cache,
		aesKey: aesKey,
	}
}

func (r *ServiceRepository) FindByID(id string) (*content.PricedServiceNode, error) {
	if service, found := r.cache.GetService(id); found {
		return service, nil
	}

	service, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if service == nil {
		return nil, nil
	}

	r.cache.SetService(service)
	return service, nil
}

func (r *ServiceRepository) FindByUserID(userID string) ([]*content.PricedServiceNode, error) {
	if ids, found := r.cache.GetServiceIDsByUser(userID); found {
		var services []*content.PricedServiceNode
		allCached := true

		for _, id := range ids {
			service, found := r.cache.GetService(id)
			if !found {
				allCached = false
				break
			}
			services = append(services, service)
		}

		if allCached {
			return services, nil
		}
	}

	services, err := r.loadByUserFromDB(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(services))
	for _, service := range services {
		r.cache.SetService(service)
		ids = append(ids, service.ID)
	}
	r.cache.SetServiceIDsByUser(userID, ids)

	return services, nil
}

func (r *ServiceRepository) Store(service *content.PricedServiceNode) error {
	encrypted, err := security.EncryptPaymentURL(service.PaymentURL, r.aesKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt payment URL: %w", err)
	}

	query := `INSERT INTO services (id, user_id, name, description, price, payment_url_encrypted, created, changed)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query, service.ID, service.UserID, service.Name,
		service.Description, service.Price, encrypted, service.Created, service.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert service: %w", err)
	}

	r.cache.SetService(service)
	r.refreshUserIndex(service.UserID)
	return nil
}

func (r *ServiceRepository) Update(service *content.PricedServiceNode) error {
	encrypted, err := security.EncryptPaymentURL(service.PaymentURL, r.aesKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt payment URL: %w", err)
	}

	query := `UPDATE services SET name = ?, description = ?, price = ?,
              payment_url_encrypted = ?, changed = ? WHERE id = ?`

	_, err = r.db.Exec(query, service.Name, service.Description, service.Price,
		encrypted, service.Changed, service.ID)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	r.cache.SetService(service)
	return nil
}

func (r *ServiceRepository) Delete(id string) error {
	service, err := r.FindByID(id)
	if err != nil {
		return err
	}

	query := `DELETE FROM services WHERE id = ?`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	r.cache.InvalidateService(id)
	if service != nil {
		r.refreshUserIndex(service.UserID)
	}
	return nil
}

func (r *ServiceRepository) refreshUserIndex(userID string) {
	query := `SELECT id FROM services WHERE user_id = ? ORDER BY created`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return
	}

	r.cache.SetServiceIDsByUser(userID, ids)
}

func (r *ServiceRepository) loadFromDB(id string) (*content.PricedServiceNode, error) {
	query := `SELECT id, user_id, name, description, price, payment_url_encrypted, created, changed
              FROM services WHERE id = ?`

	row := r.db.QueryRow(query, id)
	service, err := r.scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load service %s: %w", id, err)
	}
	return service, nil
}

func (r *ServiceRepository) loadByUserFromDB(userID string) ([]*content.PricedServiceNode, error) {
	query := `SELECT id, user_id, name, description, price, payment_url_encrypted, created, changed
              FROM services WHERE user_id = ? ORDER BY created`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query services for user %s: %w", userID, err)
	}
	defer rows.Close()

	var services []*content.PricedServiceNode
	for rows.Next() {
		service, err := r.scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return services, nil
}

func (r *ServiceRepository) scanService(row rowScanner) (*content.PricedServiceNode, error) {
	var service content.PricedServiceNode
	var description, encrypted sql.NullString

	err := row.Scan(&service.ID, &service.UserID, &service.Name, &description,
		&service.Price, &encrypted, &service.Created, &service.Changed)
	if err != nil {
		return nil, err
	}

	service.NodeType = "PricedService"
	service.Description = description.String

	if encrypted.Valid && encrypted.String != "" {
		paymentURL, err := security.DecryptPaymentURL(encrypted.String, r.aesKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt payment URL for service %s: %w", service.ID, err)
		}
		service.PaymentURL = paymentURL
	}

	return &service, nil
}
