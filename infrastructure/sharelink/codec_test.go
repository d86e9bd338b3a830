package sharelink_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
	"github.com/Idkwii/Cycle-youtube-analytics/infrastructure/sharelink"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	folders := []model.Folder{{ID: "f1", Name: "Tech"}}
	channels := []model.Channel{
		{ID: "UCabcdefghijklmnopqrstuv", FolderID: "f1", Title: "Test"},
		{ID: "UC1234567890abcdefghijkl", FolderID: "f1", Title: "Second"},
	}

	token, err := sharelink.Encode("secret-key", channels, folders)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := sharelink.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", decoded.APIKey)
	require.Len(t, decoded.Folders, 1)
	assert.Equal(t, "f1", decoded.Folders[0].ID)
	assert.Equal(t, "Tech", decoded.Folders[0].Name)

	require.Len(t, decoded.Channels, 2)
	for i, ch := range decoded.Channels {
		assert.Equal(t, channels[i].ID, ch.ID)
		assert.Equal(t, channels[i].FolderID, ch.FolderID)
		assert.Equal(t, channels[i].Title, ch.Title)
	}
}

func TestDecodeReconstructsUploadsPlaylistHeuristically(t *testing.T) {
	token, err := sharelink.Encode("", []model.Channel{
		{ID: "UCabcdefghijklmnopqrstuv", FolderID: "f1", Title: "Test"},
	}, []model.Folder{{ID: "f1", Name: "Tech"}})
	require.NoError(t, err)

	decoded, err := sharelink.Decode(token)
	require.NoError(t, err)
	require.Len(t, decoded.Channels, 1)

	ch := decoded.Channels[0]
	assert.Equal(t, "UUabcdefghijklmnopqrstuv", ch.UploadsPlaylistID)
	assert.Equal(t, model.UploadsFromHeuristic, ch.UploadsProvenance)
}

func TestDecodeLegacyFormat(t *testing.T) {
	legacy := `{"apiKey":"old-key","folders":[{"id":"f1","name":"News"}],"channels":[{"id":"UCzzzzzzzzzzzzzzzzzzzzzz","folderId":"f1","title":"Legacy"}]}`
	token := base64.StdEncoding.EncodeToString([]byte(legacy))

	decoded, err := sharelink.Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "old-key", decoded.APIKey)
	require.Len(t, decoded.Folders, 1)
	assert.Equal(t, "News", decoded.Folders[0].Name)
	require.Len(t, decoded.Channels, 1)
	assert.Equal(t, "Legacy", decoded.Channels[0].Title)
	assert.Equal(t, "UUzzzzzzzzzzzzzzzzzzzzzz", decoded.Channels[0].UploadsPlaylistID)
}

func TestDecodeMalformedToken(t *testing.T) {
	for _, token := range []string{"", "   ", "!!!not-a-token!!!", "AAAA"} {
		_, err := sharelink.Decode(token)
		assert.ErrorIs(t, err, model.ErrDecode, "token %q", token)
	}
}

func TestEncodeOmitsEmptyKey(t *testing.T) {
	token, err := sharelink.Encode("", nil, []model.Folder{{ID: "f1", Name: "Tech"}})
	require.NoError(t, err)

	decoded, err := sharelink.Decode(token)
	require.NoError(t, err)
	assert.Empty(t, decoded.APIKey)
}

func TestShareURL(t *testing.T) {
	u, err := sharelink.ShareURL("https://dash.example.com", "tok123")
	require.NoError(t, err)
	assert.Equal(t, "https://dash.example.com?share=tok123", u)

	u, err = sharelink.ShareURL("https://dash.example.com?view=all", "tok123")
	require.NoError(t, err)
	assert.Equal(t, "https://dash.example.com?view=all&share=tok123", u)
}
