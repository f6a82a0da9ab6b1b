package store

// schemaDDL creates the full schema in one shot; Open runs it as a
// single statement batch (not a transaction) while holding the migration
// file lock. Chunks cascade-delete with
// their file; embeddings and nothing else cascade-delete with their
// chunk (invariant: removing a file removes its chunks and, through the
// chunk cascade, their embeddings).
const schemaDDL = `
CREATE TABLE IF NOT EXISTS schema_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path        TEXT NOT NULL UNIQUE,
	fingerprint TEXT NOT NULL,
	size        INTEGER NOT NULL,
	language    TEXT NOT NULL DEFAULT '',
	indexed_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chunks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id    INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	occurrence INTEGER NOT NULL DEFAULT 0,
	signature  TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	start_line INTEGER NOT NULL DEFAULT 0,
	end_line   INTEGER NOT NULL DEFAULT 0,
	start_byte INTEGER NOT NULL DEFAULT 0,
	end_byte   INTEGER NOT NULL DEFAULT 0,
	language   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_chunks_file_id ON chunks(file_id);
CREATE INDEX IF NOT EXISTS idx_chunks_name ON chunks(name);
CREATE INDEX IF NOT EXISTS idx_chunks_kind ON chunks(kind);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
	content,
	name,
	content='chunks',
	content_rowid='id',
	tokenize='unicode61'
);

CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
	INSERT INTO chunks_fts(rowid, content, name) VALUES (new.id, new.content, new.name);
END;

CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, content, name) VALUES ('delete', old.id, old.content, old.name);
END;

CREATE TRIGGER IF NOT EXISTS chunks_au AFTER UPDATE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, content, name) VALUES ('delete', old.id, old.content, old.name);
	INSERT INTO chunks_fts(rowid, content, name) VALUES (new.id, new.content, new.name);
END;

CREATE TABLE IF NOT EXISTS embeddings (
	chunk_id INTEGER NOT NULL REFERENCES chunks(id) ON DELETE CASCADE,
	model    TEXT NOT NULL,
	vector   BLOB NOT NULL,
	PRIMARY KEY (chunk_id, model)
);

CREATE TABLE IF NOT EXISTS annotations (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path_prefix TEXT NOT NULL,
	note        TEXT NOT NULL,
	session     TEXT NOT NULL DEFAULT '',
	expires_at  TEXT,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_annotations_prefix ON annotations(path_prefix);
CREATE INDEX IF NOT EXISTS idx_annotations_session ON annotations(session);

CREATE TABLE IF NOT EXISTS workset (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path_prefix TEXT NOT NULL,
	kind        TEXT NOT NULL CHECK (kind IN ('focus', 'visited')),
	session     TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workset_prefix ON workset(path_prefix);
CREATE INDEX IF NOT EXISTS idx_workset_kind_session ON workset(kind, session);
`

const pragmaDSN = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
