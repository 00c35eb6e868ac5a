package httpdto

import "encoding/json"

// MusicRequest is the JSON body of POST /api/music. Base64 carries the album
// image (base64 data or URL) and is published as albumImg. Values are kept as
// raw JSON so whatever the caller sent is published unchanged.
type MusicRequest struct {
	Author  json.RawMessage `json:"author"`
	Song    json.RawMessage `json:"song"`
	Base64  json.RawMessage `json:"base64"`
	NoSound json.RawMessage `json:"noSound"`
}
