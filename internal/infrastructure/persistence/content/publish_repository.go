package content

import (
	"database/sql"
	"fmt"

	"github.com/SiteWright/sitewright-go/internal/domain/entities/content"
)

// PublishRepository persists published website snapshots. Publishes are
// append-only history, so there is no cache layer and no update path.
type PublishRepository struct {
	db *sql.DB
}

func NewPublishRepository(db *sql.DB) *PublishRepository {
	return &PublishRepository{db: db}
}

func (r *PublishRepository) FindLatestByWebsiteID(websiteID string) (*content.PublishNode, error) {
	query := `SELECT id, website_id, snapshot_html, template_hash, created
              FROM publishes WHERE website_id = ? ORDER BY created DESC LIMIT 1`

	row := r.db.QueryRow(query, websiteID)
	publish, err := scanPublish(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest publish for website %s: %w", websiteID, err)
	}
	return publish, nil
}

func (r *PublishRepository) FindByWebsiteID(websiteID string) ([]*content.PublishNode, error) {
	query := `SELECT id, website_id, snapshot_html, template_hash, created
              FROM publishes WHERE website_id = ? ORDER BY created DESC`

	rows, err := r.db.Query(query, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query publishes for website %s: %w", websiteID, err)
	}
	defer rows.Close()

	var publishes []*content.PublishNode
	for rows.Next() {
		publish, err := scanPublish(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan publish: %w", err)
		}
		publishes = append(publishes, publish)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return publishes, nil
}

func (r *PublishRepository) Store(publish *content.PublishNode) error {
	query := `INSERT INTO publishes (id, website_id, snapshot_html, template_hash, created)
              VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query, publish.ID, publish.WebsiteID, publish.SnapshotHTML,
		publish.TemplateHash, publish.Created)
	if err != nil {
		return fmt.Errorf("failed to insert publish: %w", err)
	}
	return nil
}

func scanPublish(row rowScanner) (*content.PublishNode, error) {
	var publish content.PublishNode
	var templateHash sql.NullString

	err := row.Scan(&publish.ID, &publish.WebsiteID, &publish.SnapshotHTML,
		&templateHash, &publish.Created)
	if err != nil {
		return nil, err
	}

	publish.NodeType = "Publish"
	publish.TemplateHash = templateHash.String
	return &publish, nil
}
