package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eugenetwtw/w22-8g-chinese-course-simplified/internal/models"
)

// Client calls an OpenAI-compatible chat-completions endpoint to grade
// free-text answers. One outbound request per call, no retry, no caching.
type Client struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewClient(apiKey, apiURL, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
	}
}

// Available reports whether an API key is configured.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const shortAnswerSystemPrompt = `你是一位專業的國中國文教師，負責評分學生的問答題回答。
請根據參考答案評估學生的回答，給予分數（0-100分）、具體評語和改進建議。
評分標準：
- 內容完整性（40%）：是否涵蓋參考答案中的所有重點
- 理解準確性（30%）：對問題的理解是否準確
- 表達清晰度（20%）：表達是否清晰、邏輯是否連貫
- 創新思考（10%）：是否有獨到見解或創新思考

請以JSON格式回應，包含以下三個欄位：
- score: 數字，0-100分
- feedback: 字串，具體評語
- suggestions: 字串，改進建議`

const essaySystemPromptFmt = `你是一位專業的國中國文教師，負責評分學生的作文。
請根據提供的評分標準(rubric)評估學生的作文，給予分數（0-100分）、具體評語和改進建議。

評分標準(rubric)如下：
%s

請以JSON格式回應，包含以下三個欄位：
- score: 數字，0-100分
- feedback: 字串，具體評語，請針對rubric中的每個部分給予評語
- suggestions: 字串，改進建議，請提供具體可行的改進方向`

const overallSystemPrompt = `你是一位專業的國中國文教師，負責給予學生整體測驗評語。
請根據學生在各部分的得分，給予鼓勵性且具建設性的整體評語，包含優點和可改進之處。
評語應該溫和、正面，並提供具體的學習建議。`

// GradeShortAnswer grades one short-answer response against its reference
// answer.
func (c *Client) GradeShortAnswer(ctx context.Context, question, studentAnswer, referenceAnswer string) (*models.GradingResult, error) {
	user := fmt.Sprintf("問題：%s\n\n參考答案：%s\n\n學生回答：%s", question, referenceAnswer, studentAnswer)

	content, err := c.complete(ctx, shortAnswerSystemPrompt, user, true)
	if err != nil {
		return nil, err
	}
	return parseGradingResult(content)
}

// GradeEssay grades one essay against its rubric.
func (c *Client) GradeEssay(ctx context.Context, title, question, studentEssay string, rubric models.Rubric) (*models.GradingResult, error) {
	system := fmt.Sprintf(essaySystemPromptFmt, renderRubric(rubric))
	user := fmt.Sprintf("作文題目：%s\n\n作文要求：%s\n\n學生作文：%s", title, question, studentEssay)

	content, err := c.complete(ctx, system, user, true)
	if err != nil {
		return nil, err
	}
	return parseGradingResult(content)
}

// OverallFeedback requests a free-text narrative summary for the whole
// attempt. total is the weighted composite across the three sections.
func (c *Client) OverallFeedback(ctx context.Context, mcScore float64, saScores []float64, essayScore float64, total float64) (string, error) {
	saParts := make([]string, len(saScores))
	for i, s := range saScores {
		saParts[i] = fmt.Sprintf("%.1f", s)
	}

	user := fmt.Sprintf(`學生測驗得分情況：
- 選擇題（30%%權重）：%.1f分
- 問答題（40%%權重）：%s分
- 作文（30%%權重）：%.1f分
- 加權總分：%.1f分

請給予整體評語和學習建議。`, mcScore, strings.Join(saParts, "分, "), essayScore, total)

	return c.complete(ctx, overallSystemPrompt, user, false)
}

// complete performs one chat-completions call and returns the assistant
// message content. jsonMode asks the service for a JSON-shaped reply.
func (c *Client) complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	if !c.Available() {
		return "", ErrCredentialMissing
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrRemote, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrRemote, resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	return chatResp.Choices[0].Message.Content, nil
}

func parseGradingResult(content string) (*models.GradingResult, error) {
	content = cleanJSONContent(content)

	var result models.GradingResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Score < 0 || result.Score > 100 {
		return nil, fmt.Errorf("%w: score %.1f out of range", ErrMalformedResponse, result.Score)
	}
	return &result, nil
}

// cleanJSONContent strips markdown code fences some models wrap around
// JSON replies.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

func renderRubric(rubric models.Rubric) string {
	var sections []string
	for _, section := range rubric {
		lines := make([]string, 0, len(section.Criteria)+1)
		lines = append(lines, fmt.Sprintf("  %s:", section.Title))
		for _, criterion := range section.Criteria {
			lines = append(lines, fmt.Sprintf("    - %s: %s", criterion.Level, criterion.Description))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}
