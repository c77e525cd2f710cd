package mongostore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/usernotify/pkg/notify"
)

func TestFilterDoc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter notify.Filter
		want   bson.D
	}{
		{
			name: "user only",
			want: bson.D{{Key: "user_id", Value: "u1"}},
		},
		{
			name:   "type",
			filter: notify.Filter{Type: "alert"},
			want:   bson.D{{Key: "user_id", Value: "u1"}, {Key: "type", Value: "alert"}},
		},
		{
			name:   "type and channel",
			filter: notify.Filter{Type: "alert", Channel: "mail"},
			want: bson.D{
				{Key: "user_id", Value: "u1"},
				{Key: "type", Value: "alert"},
				{Key: "channel", Value: "mail"},
			},
		},
		{
			name:   "channel",
			filter: notify.Filter{Channel: "mail"},
			want:   bson.D{{Key: "user_id", Value: "u1"}, {Key: "channel", Value: "mail"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, filterDoc("u1", tt.filter))
		})
	}
}

func TestPreferenceDocumentShape(t *testing.T) {
	t.Parallel()

	raw, err := bson.Marshal(notify.Preference{UserID: "u1", Type: "alert", Channel: "mail", IsActive: true})
	assert.NoError(t, err)

	var doc bson.M
	assert.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, bson.M{"user_id": "u1", "type": "alert", "channel": "mail", "is_active": true}, doc)
}
