package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Detection is the classifier's guess for a photographed part.
type Detection struct {
	PartType   string  `json:"partType"`
	Brand      string  `json:"brand"`
	Confidence float64 `json:"confidence,omitempty"`
}

// VoiceQuery is a spoken search broken into catalog terms.
type VoiceQuery struct {
	MachineType string `json:"machineType"`
	Brand       string `json:"brand"`
	Part        string `json:"part"`
}

// Terms joins the extracted fields into a catalog search string.
func (q VoiceQuery) Terms() string {
	var terms []string
	for _, t := range []string{q.Brand, q.Part} {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return strings.Join(terms, " ")
}

var errBadImage = errors.New("image is not valid base64")

// decodeImage accepts raw base64 or a data URL and returns the image format and bytes.
func decodeImage(input string) (string, []byte, error) {
	format := "jpeg"
	data := strings.TrimSpace(input)
	if strings.HasPrefix(data, "data:") {
		meta, payload, ok := strings.Cut(data, ",")
		if !ok {
			return "", nil, errBadImage
		}
		data = payload
		if mime, _, _ := strings.Cut(strings.TrimPrefix(meta, "data:"), ";"); strings.HasPrefix(mime, "image/") {
			format = strings.TrimPrefix(mime, "image/")
		}
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(raw) == 0 {
		return "", nil, errBadImage
	}
	return format, raw, nil
}

func parseDetection(text string) *Detection {
	var d Detection
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &d); err != nil {
		return nil
	}
	if d.PartType == "" && d.Brand == "" {
		return nil
	}
	return &d
}

func parseVoice(text string) *VoiceQuery {
	var q VoiceQuery
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &q); err != nil {
		return nil
	}
	if q == (VoiceQuery{}) {
		return nil
	}
	return &q
}

func (c *Client) jsonModel(schema *genai.Schema) *genai.GenerativeModel {
	model := c.genai.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema
	return model
}

// Analyze identifies a spare part from a photo. Any failure yields nil.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) *Detection {
	if !c.Enabled() {
		return nil
	}
	format, raw, err := decodeImage(imageBase64)
	if err != nil {
		c.log.Warn("image analysis skipped", zap.Error(err))
		return nil
	}
	model := c.jsonModel(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"partType":   {Type: genai.TypeString},
			"brand":      {Type: genai.TypeString},
			"confidence": {Type: genai.TypeNumber},
		},
		Required: []string{"partType", "brand"},
	})
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, raw),
		genai.Text("Identify this refrigeration, AC or washing machine spare part. Provide the probable Part Type and Brand. Respond in JSON format."),
	)
	if err != nil {
		c.log.Error("gemini image analysis failed", zap.Error(err))
		return nil
	}
	return parseDetection(responseText(resp))
}

// InterpretVoice extracts machine type, brand and part from a spoken query,
// which may be in Hinglish ("LG fridge ka relay"). Any failure yields nil.
func (c *Client) InterpretVoice(ctx context.Context, query string) *VoiceQuery {
	if !c.Enabled() || strings.TrimSpace(query) == "" {
		return nil
	}
	model := c.jsonModel(&genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"machineType": {Type: genai.TypeString},
			"brand":       {Type: genai.TypeString},
			"part":        {Type: genai.TypeString},
		},
	})
	prompt := `The user said: "` + query + `". This is a spare parts shop (AC, Fridge, Washing Machine).
Extract the Machine Type, Brand, and Part from this query.
The query might be in Hinglish (e.g. "LG Fridge ka relay").
Respond in JSON format.`
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.log.Error("gemini voice interpretation failed", zap.Error(err))
		return nil
	}
	return parseVoice(responseText(resp))
}
