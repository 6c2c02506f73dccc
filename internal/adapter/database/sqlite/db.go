package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/rs/zerolog"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"

	"authapi/db/migrations"
)

const MemoryPath = ":memory:"

type Config struct {
	Path        string
	SQLLogLevel string
}

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

// NewDB opens the database, wraps it with tracing and statement logging and
// applies the embedded migrations.
func NewDB(config Config) (*DB, error) {
	if config.Path == "" {
		config.Path = "database.db"
	}

	sqlDB, err := open(config)

	if err != nil {
		return nil, err
	}

	if err := RunMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}, nil
}

func open(config Config) (*sql.DB, error) {
	tracedDB, err := otelsql.Open("sqlite3", config.Path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("authapi"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Only the instrumented driver is kept; the pool that came with it has
	// opened no connections yet.
	tracedDriver := tracedDB.Driver()

	if err := tracedDB.Close(); err != nil {
		return nil, fmt.Errorf("close sqlite bootstrap pool: %w", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Arguments carry emails and password hashes.
	db := sqldblogger.OpenDriver(config.Path, tracedDriver, zerologadapter.New(logger),
		sqldblogger.WithMinimumLevel(sqlLogLevel(config.SQLLogLevel)),
		sqldblogger.WithLogArguments(false),
	)

	// Every connection to :memory: is a separate database.
	if config.Path == MemoryPath {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(5)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.FS, migrations.SQLiteDir)

	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func sqlLogLevel(level string) sqldblogger.Level {
	switch strings.ToLower(level) {
	case "trace":
		return sqldblogger.LevelTrace
	case "debug":
		return sqldblogger.LevelDebug
	case "info":
		return sqldblogger.LevelInfo
	default:
		return sqldblogger.LevelError
	}
}
