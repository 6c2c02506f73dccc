package sqlite

import (
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestNewDB_FileDatabaseReopens(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "auth.db")

	first, err := NewDB(Config{Path: path, SQLLogLevel: "error"})
	g.Expect(err).ToNot(HaveOccurred())

	_, err = first.Exec(`INSERT INTO users (uuid, name, email, encrypted_password, role, created_at, updated_at)
		VALUES ('u-1', '', 'a@x.com', '$2a$04$x', 'profile', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(first.Close()).To(Succeed())

	second, err := NewDB(Config{Path: path, SQLLogLevel: "error"})
	g.Expect(err).ToNot(HaveOccurred())
	defer second.Close()

	var count int
	g.Expect(second.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)).To(Succeed())
	g.Expect(count).To(Equal(1))
}

func TestNewDB_MemoryDatabaseIsMigrated(t *testing.T) {
	g := NewWithT(t)

	db, err := NewDB(Config{Path: MemoryPath})
	g.Expect(err).ToNot(HaveOccurred())
	defer db.Close()

	g.Expect(db.Stats().MaxOpenConnections).To(Equal(1))

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'users'`).Scan(&name)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(name).To(Equal("users"))
}
