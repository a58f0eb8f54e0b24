package types

// ChatRequest is the body for POST /advisor/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the advisor's free-text reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// AnalyzeRequest is the body for POST /analysis. Image is a data URI.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeResponse wraps the structured estimate for one food photo.
type AnalyzeResponse struct {
	Analysis *AnalysisResult `json:"analysis"`
}

// SuggestRecipesRequest is the body for POST /recipes/suggest.
type SuggestRecipesRequest struct {
	ImageBase64 string `json:"imageBase64"`
}
