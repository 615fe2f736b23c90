package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inbox/internal/httpserver/respond"
	"github.com/MrSnakeDoc/inbox/internal/logger"
)

type createRequest struct {
	Markdown string `json:"content_md"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Source   int    `json:"from_source"`
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

// ListRecords serves one page of records, newest first.
func ListRecords(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pr, err := pageFromQuery(r.URL.Query(), d.DefaultPageSize)
		if err != nil {
			writeErr(w, r, d, err)
			return
		}
		listPage(w, r, d, pr)
	}
}

func listPage(w http.ResponseWriter, r *http.Request, d deps.Deps, pr domain.PageRequest) {
	page, err := d.Records.List(r.Context(), pr)
	if err != nil {
		writeErr(w, r, d, err)
		return
	}
	respond.OK(w, respond.MsgSuccess, toPageDTO(page))
}

// GetRecord serves a single record by the {id} path parameter.
func GetRecord(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		getByID(w, r, d, chi.URLParam(r, "id"))
	}
}

func getByID(w http.ResponseWriter, r *http.Request, d deps.Deps, id string) {
	rec, err := d.Records.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, d, err)
		return
	}
	respond.OK(w, respond.MsgSuccess, toRecordDTO(rec))
}

// CreateRecord stores a new record and answers 201 with it.
func CreateRecord(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeErr(w, r, d, err)
			return
		}

		rec, err := d.Records.Create(r.Context(), domain.NewRecord{
			Markdown: req.Markdown,
			Title:    req.Title,
			URL:      req.URL,
			Source:   req.Source,
		})
		if err != nil {
			writeErr(w, r, d, err)
			return
		}

		d.Logger.Info("record created",
			logger.String("id", rec.ID),
			logger.Int("source", rec.Source))
		respond.JSON(w, http.StatusCreated, respond.Envelope{
			Code: respond.CodeSuccess,
			Msg:  "Shorthand created successfully",
			Data: toRecordDTO(rec),
		})
	}
}

// DeleteRecords removes the ids listed in the body. Unknown ids are ignored.
func DeleteRecords(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req deleteRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeErr(w, r, d, err)
			return
		}
		deleteIDs(w, r, d, req.IDs)
	}
}

func deleteIDs(w http.ResponseWriter, r *http.Request, d deps.Deps, ids []string) {
	n, err := d.Records.DeleteMany(r.Context(), ids)
	if err != nil {
		writeErr(w, r, d, err)
		return
	}

	d.Logger.Info("records deleted",
		logger.Int("requested", len(ids)),
		logger.Int64("deleted", n))
	respond.OK(w, fmt.Sprintf("Successfully deleted %d shorthand(s)", n), deleteDTO{DeletedCount: n})
}

// SearchRecords serves one page of records matching ?q=, ignoring case.
func SearchRecords(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		term, err := domain.SearchTerm(q.Get("q"))
		if err != nil {
			writeErr(w, r, d, err)
			return
		}
		pr, err := pageFromQuery(q, d.DefaultPageSize)
		if err != nil {
			writeErr(w, r, d, err)
			return
		}

		page, err := d.Records.Search(r.Context(), term, pr)
		if err != nil {
			writeErr(w, r, d, err)
			return
		}
		respond.OK(w, respond.MsgSuccess, toPageDTO(page))
	}
}
