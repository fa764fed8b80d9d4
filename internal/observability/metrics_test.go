package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryLabels(t *testing.T) {
	cases := []struct {
		sql       string
		operation string
		table     string
	}{
		{"SELECT * FROM users WHERE id = 1", "select", "users"},
		{`SELECT count(*) FROM "posts"`, "select", "posts"},
		{"INSERT INTO likes (user_id, post_id) VALUES (1, 2)", "insert", "likes"},
		{"UPDATE comments SET message = 'x' WHERE id = 3", "update", "comments"},
		{"DELETE FROM follows WHERE follower_id = 1", "delete", "follows"},
		{"BEGIN", "other", "unknown"},
		{"", "other", "unknown"},
	}

	for _, tc := range cases {
		op, table := queryLabels(tc.sql)
		assert.Equal(t, tc.operation, op, tc.sql)
		assert.Equal(t, tc.table, table, tc.sql)
	}
}
