package content

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/interfaces"
)

type WebsiteRepository struct {
	db    *sql.DB
	cache interfaces.ContentCache
}

func NewWebsiteRepository(db *sql.DB, cache interfaces.ContentCache) *WebsiteRepository {
	return &WebsiteRepository{
		db:    db,
		cache: cache,
	}
}

func (r *WebsiteRepository) FindByID(id string) (*content.WebsiteNode, error) {
	if website, found := r.cache.GetWebsite(id); found {
		return website, nil
	}

	website, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if website == nil {
		return nil, nil
	}

	r.cache.SetWebsite(website)
	return website, nil
}

func (r *WebsiteRepository) FindByUserID(userID string) ([]*content.WebsiteNode, error) {
	if ids, found := r.cache.GetWebsiteIDsByUser(userID); found {
		var websites []*content.WebsiteNode
		var missingIDs []string

		for _, id := range ids {
			if website, found := r.cache.GetWebsite(id); found {
				websites = append(websites, website)
			} else {
				missingIDs = append(missingIDs, id)
			}
		}

		if len(missingIDs) > 0 {
			missing, err := r.loadMultipleFromDB(missingIDs)
			if err != nil {
				return nil, err
			}
			for _, website := range missing {
				r.cache.SetWebsite(website)
				websites = append(websites, website)
			}
		}

		return websites, nil
	}

	websites, err := r.loadByUserFromDB(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(websites))
	for _, website := range websites {
		r.cache.SetWebsite(website)
		ids = append(ids, website.ID)
	}
	r.cache.SetWebsiteIDsByUser(userID, ids)

	return websites, nil
}

// FindByUserAndTemplate returns the user's website for one template, if any.
// Each user keeps at most one customization per template.
func (r *WebsiteRepository) FindByUserAndTemplate(userID, templateID string) (*content.WebsiteNode, error) {
	websites, err := r.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	for _, website := range websites {
		if website.TemplateID == templateID {
			return website, nil
		}
	}
	return nil, nil
}

func (r *WebsiteRepository) FindAll() ([]*content.WebsiteNode, error) {
	query := `SELECT id, template_id, user_id, website_name, customizations,
              saved_content, template_hash, status, created, changed
              FROM websites ORDER BY created DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query websites: %w", err)
	}
	defer rows.Close()

	var websites []*content.WebsiteNode
	for rows.Next() {
		website, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		r.cache.SetWebsite(website)
		websites = append(websites, website)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return websites, nil
}

func (r *WebsiteRepository) Store(website *content.WebsiteNode) error {
	customizations, err := marshalCustomizations(website.Customizations)
	if err != nil {
		return err
	}

	query := `INSERT INTO websites (id, template_id, user_id, website_name, customizations,
              saved_content, template_hash, status, created, changed)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = r.db.Exec(query, website.ID, website.TemplateID, website.UserID,
		website.WebsiteName, customizations, website.SavedContent, website.TemplateHash,
		string(website.Status), website.Created, website.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert website: %w", err)
	}

	r.cache.SetWebsite(website)
	r.invalidateUserIndex(website.UserID)
	return nil
}

func (r *WebsiteRepository) Update(website *content.WebsiteNode) error {
	customizations, err := marshalCustomizations(website.Customizations)
	if err != nil {
		return err
	}

	query := `UPDATE websites SET website_name = ?, customizations = ?, saved_content = ?,
              template_hash = ?, status = ?, changed = ? WHERE id = ?`

	_, err = r.db.Exec(query, website.WebsiteName, customizations, website.SavedContent,
		website.TemplateHash, string(website.Status), website.Changed, website.ID)
	if err != nil {
		return fmt.Errorf("failed to update website: %w", err)
	}

	r.cache.SetWebsite(website)
	return nil
}

func (r *WebsiteRepository) Delete(id string) error {
	website, err := r.FindByID(id)
	if err != nil {
		return err
	}

	query := `DELETE FROM websites WHERE id = ?`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete website: %w", err)
	}

	r.cache.InvalidateWebsite(id)
	if website != nil {
		r.invalidateUserIndex(website.UserID)
	}
	return nil
}

func (r *WebsiteRepository) invalidateUserIndex(userID string) {
	// Drop the per-user index so the next FindByUserID rebuilds it from the DB.
	r.cache.SetWebsiteIDsByUser(userID, nil)

	ids, err := r.loadIDsByUserFromDB(userID)
	if err != nil {
		return
	}
	r.cache.SetWebsiteIDsByUser(userID, ids)
}

func (r *WebsiteRepository) loadFromDB(id string) (*content.WebsiteNode, error) {
	query := `SELECT id, template_id, user_id, website_name, customizations,
              saved_content, template_hash, status, created, changed
              FROM websites WHERE id = ?`

	row := r.db.QueryRow(query, id)
	website, err := scanWebsite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load website %s: %w", id, err)
	}
	return website, nil
}

func (r *WebsiteRepository) loadByUserFromDB(userID string) ([]*content.WebsiteNode, error) {
	query := `SELECT id, template_id, user_id, website_name, customizations,
              saved_content, template_hash, status, created, changed
              FROM websites WHERE user_id = ? ORDER BY created DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query websites for user %s: %w", userID, err)
	}
	defer rows.Close()

	var websites []*content.WebsiteNode
	for rows.Next() {
		website, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		websites = append(websites, website)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return websites, nil
}

func (r *WebsiteRepository) loadIDsByUserFromDB(userID string) ([]string, error) {
	query := `SELECT id FROM websites WHERE user_id = ? ORDER BY created DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query website IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan website ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

func (r *WebsiteRepository) loadMultipleFromDB(ids []string) ([]*content.WebsiteNode, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`SELECT id, template_id, user_id, website_name, customizations,
              saved_content, template_hash, status, created, changed
              FROM websites WHERE id IN (%s)`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query websites: %w", err)
	}
	defer rows.Close()

	var websites []*content.WebsiteNode
	for rows.Next() {
		website, err := scanWebsite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		websites = append(websites, website)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return websites, nil
}

func scanWebsite(row rowScanner) (*content.WebsiteNode, error) {
	var website content.WebsiteNode
	var customizations, savedContent, templateHash sql.NullString
	var status string

	err := row.Scan(&website.ID, &website.TemplateID, &website.UserID,
		&website.WebsiteName, &customizations, &savedContent, &templateHash,
		&status, &website.Created, &website.Changed)
	if err != nil {
		return nil, err
	}

	website.NodeType = "Website"
	website.Status = content.WebsiteStatus(status)
	website.SavedContent = savedContent.String
	website.TemplateHash = templateHash.String

	website.Customizations = make(map[string]string)
	if customizations.Valid && customizations.String != "" {
		if err := json.Unmarshal([]byte(customizations.String), &website.Customizations); err != nil {
			return nil, fmt.Errorf("failed to parse customizations for website %s: %w", website.ID, err)
		}
	}

	return &website, nil
}

func marshalCustomizations(customizations map[string]string) (string, error) {
	if customizations == nil {
		return "{}", nil
	}
	data, err := json.Marshal(customizations)
	if err != nil {
		return "", fmt.Errorf("failed to marshal customizations: %w", err)
	}
	return string(data), nil
}
