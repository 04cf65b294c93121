// Package content provides the content repositories
package content

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
	"github.com/SiteWright/sitewright-go/internal/infrastructure/caching/interfaces"
)

type TemplateRepository struct {
	db    *sql.DB
	cache interfaces.ContentCache
}

func NewTemplateRepository(db *sql.DB, cache interfaces.ContentCache) *TemplateRepository {
	return &TemplateRepository{
		db:    db,
		cache: cache,
	}
}

func (r *TemplateRepository) FindByID(id string) (*content.TemplateNode, error) {
	if template, found := r.cache.GetTemplate(id); found {
		return template, nil
	}

	template, err := r.loadFromDB(id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, nil
	}

	r.cache.SetTemplate(template)
	return template, nil
}

func (r *TemplateRepository) FindAll() ([]*content.TemplateNode, error) {
	if ids, found := r.cache.GetAllTemplateIDs(); found {
		var templates []*content.TemplateNode
		var missingIDs []string

		for _, id := range ids {
			if template, found := r.cache.GetTemplate(id); found {
				templates = append(templates, template)
			} else {
				missingIDs = append(missingIDs, id)
			}
		}

		if len(missingIDs) > 0 {
			missing, err := r.loadMultipleFromDB(missingIDs)
			if err != nil {
				return nil, err
			}

			for _, template := range missing {
				r.cache.SetTemplate(template)
				templates = append(templates, template)
			}
		}

		return templates, nil
	}

	ids, err := r.loadAllIDsFromDB()
	if err != nil {
		return nil, err
	}

	templates, err := r.loadMultipleFromDB(ids)
	if err != nil {
		return nil, err
	}

	for _, template := range templates {
		r.cache.SetTemplate(template)
	}
	r.cache.SetAllTemplateIDs(ids)

	return templates, nil
}

func (r *TemplateRepository) FindByIDs(ids []string) ([]*content.TemplateNode, error) {
	var result []*content.TemplateNode
	var missingIDs []string

	for _, id := range ids {
		if template, found := r.cache.GetTemplate(id); found {
			result = append(result, template)
		} else {
			missingIDs = append(missingIDs, id)
		}
	}

	if len(missingIDs) > 0 {
		missing, err := r.loadMultipleFromDB(missingIDs)
		if err != nil {
			return nil, err
		}

		for _, template := range missing {
			r.cache.SetTemplate(template)
			result = append(result, template)
		}
	}

	return result, nil
}

func (r *TemplateRepository) FindByCategory(category string) ([]*content.TemplateNode, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}

	var filtered []*content.TemplateNode
	for _, template := range all {
		if template.Category == category {
			filtered = append(filtered, template)
		}
	}
	return filtered, nil
}

func (r *TemplateRepository) Store(template *content.TemplateNode) error {
	query := `INSERT INTO templates (id, name, category, description, html, preview_path, created, changed)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query, template.ID, template.Name, template.Category,
		template.Description, template.HTML, template.PreviewPath, template.Created, template.Changed)
	if err != nil {
		return fmt.Errorf("failed to insert template: %w", err)
	}

	r.cache.SetTemplate(template)
	r.cache.SetAllTemplateIDs(nil)
	return nil
}

func (r *TemplateRepository) Update(template *content.TemplateNode) error {
	query := `UPDATE templates SET name = ?, category = ?, description = ?, html = ?,
              preview_path = ?, changed = ? WHERE id = ?`

	_, err := r.db.Exec(query, template.Name, template.Category, template.Description,
		template.HTML, template.PreviewPath, template.Changed, template.ID)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}

	r.cache.SetTemplate(template)
	return nil
}

func (r *TemplateRepository) Delete(id string) error {
	query := `DELETE FROM templates WHERE id = ?`

	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	r.cache.InvalidateTemplate(id)
	return nil
}

func (r *TemplateRepository) loadAllIDsFromDB() ([]string, error) {
	query := `SELECT id FROM templates ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan template ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

func (r *TemplateRepository) loadFromDB(id string) (*content.TemplateNode, error) {
	query := `SELECT id, name, category, description, html, preview_path, created, changed
              FROM templates WHERE id = ?`

	row := r.db.QueryRow(query, id)
	template, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", id, err)
	}
	return template, nil
}

func (r *TemplateRepository) loadMultipleFromDB(ids []string) ([]*content.TemplateNode, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	query := fmt.Sprintf(`SELECT id, name, category, description, html, preview_path, created, changed
              FROM templates WHERE id IN (%s)`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*content.TemplateNode
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return templates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*content.TemplateNode, error) {
	var template content.TemplateNode
	var category, description, previewPath sql.NullString

	err := row.Scan(&template.ID, &template.Name, &category, &description,
		&template.HTML, &previewPath, &template.Created, &template.Changed)
	if err != nil {
		return nil, err
	}

	template.NodeType = "Template"
	template.Category = category.String
	if description.Valid {
		template.Description = &description.String
	}
	if previewPath.Valid {
		template.PreviewPath = &previewPath.String
	}
	return &template, nil
}
