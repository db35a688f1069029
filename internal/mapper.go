package internal

import "cinechat/infrastructure/storage"

// ChatMapper labels each inspected record with what it holds.
func ChatMapper(key string, val []byte) InspectRow {
	row := DefaultMapper(key, val)
	row.Type, row.Detail = storage.DescribeRecord(key, val)
	return row
}
