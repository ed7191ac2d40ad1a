package notes

import (
	"strconv"

	"github.com/schwiftylabs/portal/pkg/kv"
)

// Key layout (relative to the store prefix):
//
//	{prefix}:c:{characterID}:{noteID} → msgpack-encoded Note
//	{prefix}:id:{noteID}              → characterID string (reverse index)
//
// Grouping records under the character id makes per-character listing a
// single prefix scan. The reverse index maps note id → character id so
// that Get/Update/Delete by note id are point reads, not scans.

// noteKey builds the KV key for a note record.
func noteKey(prefix kv.Key, characterID int, noteID string) kv.Key {
	k := make(kv.Key, len(prefix)+3)
	copy(k, prefix)
	k[len(prefix)] = "c"
	k[len(prefix)+1] = strconv.Itoa(characterID)
	k[len(prefix)+2] = noteID
	return k
}

// characterPrefix returns the KV prefix for listing a character's notes.
func characterPrefix(prefix kv.Key, characterID int) kv.Key {
	k := make(kv.Key, len(prefix)+2)
	copy(k, prefix)
	k[len(prefix)] = "c"
	k[len(prefix)+1] = strconv.Itoa(characterID)
	return k
}

// idKey returns the KV key for the note-id reverse index.
func idKey(prefix kv.Key, noteID string) kv.Key {
	k := make(kv.Key, len(prefix)+2)
	copy(k, prefix)
	k[len(prefix)] = "id"
	k[len(prefix)+1] = noteID
	return k
}
