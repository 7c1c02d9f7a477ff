package db

// Preferences are plain key/value strings, like the settings screen stores them
const createPreferencesTable = `
CREATE TABLE IF NOT EXISTS preferences (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const selectPreference = `
SELECT value FROM preferences WHERE key = ?
`

const upsertPreference = `
INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`

const deletePreference = `
DELETE FROM preferences WHERE key = ?
`
