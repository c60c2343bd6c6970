package rag

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status           string `json:"status"`
	CollectionsCount int    `json:"collections_count"`
	CollectionItems  int    `json:"collection_items"`
	Message          string `json:"message,omitempty"`
}

// BannerResponse is returned by GET /.
type BannerResponse struct {
	Message string `json:"message"`
}
