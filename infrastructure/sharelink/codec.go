// Package sharelink encodes dashboard configuration into a compact, URL-safe
// token so a second user can reconstruct an equivalent dashboard from a link.
package sharelink

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/Idkwii/Cycle-youtube-analytics/domain/model"
)

// QueryParam is the URL query parameter carrying the token.
const QueryParam = "share"

// compactPayload is the current encoding generation: folders as [id, name]
// pairs and channels as [id, folderId, title] triples. Thumbnail, handle and
// uploads playlist id are deliberately omitted; they are refetchable or
// reconstructable.
type compactPayload struct {
	Key      string      `json:"k,omitempty"`
	Folders  [][2]string `json:"f"`
	Channels [][3]string `json:"c"`
}

// legacyPayload is the first encoding generation: plain JSON, std base64.
type legacyPayload struct {
	APIKey  string `json:"apiKey,omitempty"`
	Folders []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"folders"`
	Channels []struct {
		ID       string `json:"id"`
		FolderID string `json:"folderId"`
		Title    string `json:"title"`
	} `json:"channels"`
}

// Encode builds a token from the exportable state. apiKey must be empty when
// the build pins a credential, so that pinned keys never leak into links.
func Encode(apiKey string, channels []model.Channel, folders []model.Folder) (string, error) {
	p := compactPayload{
		Key:      apiKey,
		Folders:  make([][2]string, 0, len(folders)),
		Channels: make([][3]string, 0, len(channels)),
	}
	for _, f := range folders {
		p.Folders = append(p.Folders, [2]string{f.ID, f.Name})
	}
	for _, c := range channels {
		p.Channels = append(p.Channels, [3]string{c.ID, c.FolderID, c.Title})
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal share payload: %w", err)
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("init compressor: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return "", fmt.Errorf("compress share payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("flush compressor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reconstructs shared state from a token. The current compact format
// is tried first; on failure the legacy base64 JSON format is attempted for
// links generated by earlier builds. Channels arrive without an uploads
// playlist id; it is reconstructed by the UC->UU prefix substitution and
// tagged as heuristic so callers can tell it apart from a looked-up value.
func Decode(token string) (*model.SharedState, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", model.ErrDecode)
	}
	if s, err := decodeCompact(token); err == nil {
		return s, nil
	}
	s, err := decodeLegacy(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecode, err)
	}
	return s, nil
}

func decodeCompact(token string) (*model.SharedState, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("base64url decode: %w", err)
	}
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}
	var p compactPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal compact payload: %w", err)
	}
	if p.Folders == nil && p.Channels == nil {
		return nil, fmt.Errorf("compact payload carries no state")
	}

	state := &model.SharedState{APIKey: p.Key}
	for _, f := range p.Folders {
		state.Folders = append(state.Folders, model.Folder{ID: f[0], Name: f[1]})
	}
	for _, c := range p.Channels {
		state.Channels = append(state.Channels, restoreChannel(c[0], c[1], c[2]))
	}
	return state, nil
}

func decodeLegacy(token string) (*model.SharedState, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	var p legacyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal legacy payload: %w", err)
	}
	if p.Folders == nil && p.Channels == nil {
		return nil, fmt.Errorf("legacy payload carries no state")
	}

	state := &model.SharedState{APIKey: p.APIKey}
	for _, f := range p.Folders {
		state.Folders = append(state.Folders, model.Folder{ID: f.ID, Name: f.Name})
	}
	for _, c := range p.Channels {
		state.Channels = append(state.Channels, restoreChannel(c.ID, c.FolderID, c.Title))
	}
	return state, nil
}

// restoreChannel rebuilds a channel from the triple carried by a link. The
// uploads playlist id follows the platform convention that a channel UCxxx
// owns the uploads playlist UUxxx. This is a shortcut, not a lookup.
func restoreChannel(id, folderID, title string) model.Channel {
	ch := model.Channel{ID: id, FolderID: folderID, Title: title}
	if strings.HasPrefix(id, "UC") {
		ch.UploadsPlaylistID = "UU" + id[2:]
		ch.UploadsProvenance = model.UploadsFromHeuristic
	}
	return ch
}

type shareQuery struct {
	Share string `url:"share"`
}

// ShareURL appends the token to the dashboard base URL as the share query
// parameter.
func ShareURL(baseURL, token string) (string, error) {
	v, err := query.Values(shareQuery{Share: token})
	if err != nil {
		return "", fmt.Errorf("encode share query: %w", err)
	}
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + v.Encode(), nil
}
