package news

import (
	"news-digest/internal/domain/entity"
)

// ItemDTO is one news item in the API response.
type ItemDTO struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
	Image   string `json:"image"`
}

// ResponseDTO is the body of a successful GET /api/news. Date is the day the
// prompt asked for, formatted YYYY-MM-DD.
type ResponseDTO struct {
	Date string    `json:"date"`
	News []ItemDTO `json:"news"`
}

// PromptDTO is the body of GET /api/prompt.
type PromptDTO struct {
	Date   string `json:"date"`
	Prompt string `json:"prompt"`
}

func toResponseDTO(resp *entity.NewsResponse) ResponseDTO {
	out := ResponseDTO{
		Date: resp.Date.Format(dateParam),
		News: make([]ItemDTO, 0, len(resp.News)),
	}
	for _, n := range resp.News {
		out.News = append(out.News, ItemDTO{
			ID:      n.ID,
			Title:   n.Title,
			Summary: n.Summary,
			Link:    n.Link,
			Image:   n.Image,
		})
	}
	return out
}
