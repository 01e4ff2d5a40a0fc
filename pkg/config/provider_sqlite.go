package config

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/moonhike/pkg/migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const defaultConfigName = "default"

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Migrator returns a migrator over the embedded configuration schema
func (s *SQLiteProvider) Migrator(logger *zap.SugaredLogger) *migrate.Migrator {
	provider := migrate.NewFSProvider(migrationFS, "migrations", "schema_migrations")
	return migrate.NewMigrator(s.db, provider, logger)
}

// EnsureSchema applies any pending schema migrations
func (s *SQLiteProvider) EnsureSchema(logger *zap.SugaredLogger) error {
	if err := s.Migrator(logger).MigrateUp(); err != nil {
		return fmt.Errorf("failed to migrate configuration schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	configID, err := s.configID()
	if err != nil {
		return nil, err
	}

	config := &ConfigData{}
	if err := s.loadServer(configID, &config.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := s.loadDefaults(configID, config); err != nil {
		return nil, fmt.Errorf("failed to load evaluation defaults: %w", err)
	}
	if err := s.loadEphemeris(configID, &config.Ephemeris); err != nil {
		return nil, fmt.Errorf("failed to load ephemeris config: %w", err)
	}

	sites, err := s.sites(configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sites: %w", err)
	}
	config.Sites = sites

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *SQLiteProvider) configID() (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM configs WHERE name = ?`, defaultConfigName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("no configuration found in %s", s.dbPath)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query config: %w", err)
	}
	return id, nil
}

func (s *SQLiteProvider) loadServer(configID int64, server *ServerData) error {
	var cert, key, listenAddr sql.NullString
	err := s.db.QueryRow(`
		SELECT tls_cert, tls_key, port, listen_addr, max_range_days, default_range_days, enable_cors
		FROM server_configs WHERE config_id = ?`, configID,
	).Scan(&cert, &key, &server.Port, &listenAddr, &server.MaxRangeDays, &server.DefaultRangeDays, &server.EnableCORS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	server.Cert = cert.String
	server.Key = key.String
	server.ListenAddr = listenAddr.String
	return nil
}

func (s *SQLiteProvider) loadDefaults(configID int64, config *ConfigData) error {
	var name, hikeStart, hikeEnd, gazeStart, gazeEnd sql.NullString
	err := s.db.QueryRow(`
		SELECT location_name, latitude, longitude, timezone,
		       hike_min_illumination, hike_start_time, hike_end_time,
		       gaze_max_illumination, gaze_prefer_no_moon, gaze_start_time, gaze_end_time
		FROM evaluation_defaults WHERE config_id = ?`, configID,
	).Scan(
		&name, &config.Location.Latitude, &config.Location.Longitude, &config.Location.Timezone,
		&config.Hiking.MinIllumination, &hikeStart, &hikeEnd,
		&config.StarGazing.MaxIllumination, &config.StarGazing.PreferNoMoon, &gazeStart, &gazeEnd,
	)
	if errors.Is(err, sql.ErrNoRows) {
		config.Hiking.MinIllumination = DefaultHiking.MinIllumination
		config.StarGazing.MaxIllumination = DefaultStarGazing.MaxIllumination
		return nil
	}
	if err != nil {
		return err
	}

	config.Location.Name = name.String
	config.Hiking.StartTime = hikeStart.String
	config.Hiking.EndTime = hikeEnd.String
	config.StarGazing.StartTime = gazeStart.String
	config.StarGazing.EndTime = gazeEnd.String
	return nil
}

func (s *SQLiteProvider) loadEphemeris(configID int64, eph *EphemerisData) error {
	var provider sql.NullString
	err := s.db.QueryRow(`
		SELECT provider, zenith_step_minutes, workers
		FROM ephemeris_configs WHERE config_id = ?`, configID,
	).Scan(&provider, &eph.ZenithStepMinutes, &eph.Workers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	eph.Provider = provider.String
	return nil
}

// GetSites returns the configured observing sites ordered by name
func (s *SQLiteProvider) GetSites() ([]SiteData, error) {
	configID, err := s.configID()
	if err != nil {
		return nil, err
	}
	return s.sites(configID)
}

func (s *SQLiteProvider) sites(configID int64) ([]SiteData, error) {
	rows, err := s.db.Query(`
		SELECT name, description, latitude, longitude, timezone, min_illumination
		FROM sites WHERE config_id = ?
		ORDER BY name`, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []SiteData
	for rows.Next() {
		var site SiteData
		var description, timezone sql.NullString
		var minIllumination sql.NullFloat64
		if err := rows.Scan(&site.Name, &description, &site.Latitude, &site.Longitude, &timezone, &minIllumination); err != nil {
			return nil, fmt.Errorf("failed to scan site row: %w", err)
		}
		site.Description = description.String
		site.Timezone = timezone.String
		if minIllumination.Valid {
			site.MinIllumination = &minIllumination.Float64
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Write methods for configuration management

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	if err := configData.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.upsertConfig(tx, defaultConfigName)
	if err != nil {
		return fmt.Errorf("failed to insert config: %w", err)
	}

	if err := s.clearExistingConfig(tx, configID); err != nil {
		return fmt.Errorf("failed to clear existing config: %w", err)
	}

	server := configData.Server
	if _, err := tx.Exec(`
		INSERT INTO server_configs (config_id, tls_cert, tls_key, port, listen_addr, max_range_days, default_range_days, enable_cors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		configID, nullString(server.Cert), nullString(server.Key), server.Port, nullString(server.ListenAddr),
		server.MaxRangeDays, server.DefaultRangeDays, server.EnableCORS,
	); err != nil {
		return fmt.Errorf("failed to insert server config: %w", err)
	}

	loc, hike, gaze := configData.Location, configData.Hiking, configData.StarGazing
	if _, err := tx.Exec(`
		INSERT INTO evaluation_defaults (
			config_id, location_name, latitude, longitude, timezone,
			hike_min_illumination, hike_start_time, hike_end_time,
			gaze_max_illumination, gaze_prefer_no_moon, gaze_start_time, gaze_end_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		configID, nullString(loc.Name), loc.Latitude, loc.Longitude, loc.Timezone,
		hike.MinIllumination, nullString(hike.StartTime), nullString(hike.EndTime),
		gaze.MaxIllumination, gaze.PreferNoMoon, nullString(gaze.StartTime), nullString(gaze.EndTime),
	); err != nil {
		return fmt.Errorf("failed to insert evaluation defaults: %w", err)
	}

	eph := configData.Ephemeris
	if _, err := tx.Exec(`
		INSERT INTO ephemeris_configs (config_id, provider, zenith_step_minutes, workers)
		VALUES (?, ?, ?, ?)`,
		configID, nullString(eph.Provider), eph.ZenithStepMinutes, eph.Workers,
	); err != nil {
		return fmt.Errorf("failed to insert ephemeris config: %w", err)
	}

	for _, site := range configData.Sites {
		if err := insertSite(tx, configID, &site); err != nil {
			return fmt.Errorf("failed to insert site %s: %w", site.Name, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteProvider) upsertConfig(tx *sql.Tx, name string) (int64, error) {
	if _, err := tx.Exec(`
		INSERT INTO configs (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`, name); err != nil {
		return 0, err
	}
	var id int64
	err := tx.QueryRow(`SELECT id FROM configs WHERE name = ?`, name).Scan(&id)
	return id, err
}

func (s *SQLiteProvider) clearExistingConfig(tx *sql.Tx, configID int64) error {
	queries := []string{
		"DELETE FROM server_configs WHERE config_id = ?",
		"DELETE FROM evaluation_defaults WHERE config_id = ?",
		"DELETE FROM ephemeris_configs WHERE config_id = ?",
		"DELETE FROM sites WHERE config_id = ?",
	}

	for _, query := range queries {
		if _, err := tx.Exec(query, configID); err != nil {
			return err
		}
	}
	return nil
}

// AddSite stores a new observing site
func (s *SQLiteProvider) AddSite(site *SiteData) error {
	if site.Name == "" {
		return fmt.Errorf("site without a name")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	configID, err := s.upsertConfig(tx, defaultConfigName)
	if err != nil {
		return fmt.Errorf("failed to get config ID: %w", err)
	}
	if err := insertSite(tx, configID, site); err != nil {
		return fmt.Errorf("failed to insert site %s: %w", site.Name, err)
	}
	return tx.Commit()
}

// DeleteSite removes a site by name
func (s *SQLiteProvider) DeleteSite(name string) error {
	configID, err := s.configID()
	if err != nil {
		return err
	}

	result, err := s.db.Exec(`DELETE FROM sites WHERE config_id = ? AND name = ?`, configID, name)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSiteNotFound, name)
	}
	return nil
}

func insertSite(tx *sql.Tx, configID int64, site *SiteData) error {
	_, err := tx.Exec(`
		INSERT INTO sites (config_id, name, description, latitude, longitude, timezone, min_illumination)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		configID, site.Name, nullString(site.Description), site.Latitude, site.Longitude,
		nullString(site.Timezone), nullFloat(site.MinIllumination),
	)
	return err
}

// Helper functions for handling nullable fields
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
