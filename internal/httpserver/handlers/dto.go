package handlers

import "github.com/MrSnakeDoc/inbox/internal/domain"

// recordDTO is a record on the wire. Field names are the ones inbox clients
// already consume.
type recordDTO struct {
	ID          string `json:"oId"`
	HTML        string `json:"shorthandContent"`
	Markdown    string `json:"shorthandMd"`
	Description string `json:"shorthandDesc"`
	Source      int    `json:"shorthandFrom"`
	Title       string `json:"shorthandTitle"`
	URL         string `json:"shorthandURL"`
	CreatedAt   int64  `json:"createdAt"`
	HCreated    string `json:"hCreated"`
}

// paginationDTO also carries the pagination* names the siyuan client reads.
type paginationDTO struct {
	PageCount         int64 `json:"pageCount"`
	RecordCount       int64 `json:"recordCount"`
	LegacyPageCount   int64 `json:"paginationPageCount"`
	LegacyRecordCount int64 `json:"paginationRecordCount"`
}

func newPaginationDTO(p *domain.Page) paginationDTO {
	return paginationDTO{
		PageCount:         p.TotalPages,
		RecordCount:       p.TotalRecords,
		LegacyPageCount:   p.TotalPages,
		LegacyRecordCount: p.TotalRecords,
	}
}

type pageDTO struct {
	Shorthands []recordDTO   `json:"shorthands"`
	Pagination paginationDTO `json:"pagination"`
}

type deleteDTO struct {
	DeletedCount int64 `json:"deletedCount"`
}

func toRecordDTO(r *domain.Record) recordDTO {
	return recordDTO{
		ID:          r.ID,
		HTML:        r.HTML,
		Markdown:    r.Markdown,
		Description: r.Description,
		Source:      r.Source,
		Title:       r.Title,
		URL:         r.URL,
		CreatedAt:   r.CreatedAt,
		HCreated:    r.Created().Format(domain.CreatedLayout),
	}
}

func toPageDTO(p *domain.Page) pageDTO {
	out := pageDTO{
		Shorthands: make([]recordDTO, 0, len(p.Records)),
		Pagination: newPaginationDTO(p),
	}
	for _, r := range p.Records {
		out.Shorthands = append(out.Shorthands, toRecordDTO(r))
	}
	return out
}
