package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SiteWright/sitewright-go/internal/infrastructure/security"
)

// TableCreator handles the creation of the database schema on first run.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent adds the default content required for a fresh install to function.
func (tc *TableCreator) SeedInitialContent(db *sql.DB) error {
	// Idempotently create the starter template so the editor has something to
	// open before any uploads happen.
	var templateID string
	err := db.QueryRow("SELECT id FROM templates WHERE name = 'Starter'").Scan(&templateID)
	if err == sql.ErrNoRows {
		templateID = security.GenerateULID()
		now := time.Now().UTC()
		_, err = db.Exec(`INSERT INTO templates (id, name, category, description, html, created, changed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			templateID, "Starter", "general", "Single page starter layout", starterTemplateHTML, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert starter template: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to check for starter template: %w", err)
	}

	return nil
}

const starterTemplateHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Your Business</title></head>
<body>
<header class="hero" style="background-color: #1f2a44">
  <h1>Your Business Name</h1>
  <p>A short line about what you do.</p>
  <a href="#contact" class="btn">Get Started</a>
</header>
<section class="pricing">
  <div class="service-card">
    <h3>Service One</h3>
    <p>Describe your first service.</p>
    <span class="price">$0</span>
    <a href="#">Book Now</a>
  </div>
  <div class="service-card">
    <h3>Service Two</h3>
    <p>Describe your second service.</p>
    <span class="price">$0</span>
    <a href="#">Book Now</a>
  </div>
</section>
<footer class="bg-dark">
  <span>All rights reserved</span>
</footer>
</body>
</html>`

// Schema definitions for the SiteWright content store
var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, email TEXT NOT NULL UNIQUE, password_hash TEXT NOT NULL, display_name TEXT, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS templates (id TEXT PRIMARY KEY, name TEXT NOT NULL, category TEXT, description TEXT, html TEXT NOT NULL, preview_path TEXT, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS websites (id TEXT PRIMARY KEY, template_id TEXT NOT NULL REFERENCES templates(id), user_id TEXT NOT NULL REFERENCES users(id), website_name TEXT NOT NULL, customizations TEXT NOT NULL DEFAULT '{}', saved_content TEXT, template_hash TEXT, status TEXT NOT NULL DEFAULT 'draft', created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS services (id TEXT PRIMARY KEY, user_id TEXT NOT NULL REFERENCES users(id), name TEXT NOT NULL, description TEXT, price TEXT NOT NULL, payment_url_encrypted TEXT, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS publishes (id TEXT PRIMARY KEY, website_id TEXT NOT NULL REFERENCES websites(id), snapshot_html TEXT NOT NULL, template_hash TEXT, created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_websites_user_id ON websites(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_websites_template_id ON websites(template_id)`,
	`CREATE INDEX IF NOT EXISTS idx_services_user_id ON services(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_publishes_website_id ON publishes(website_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
}
