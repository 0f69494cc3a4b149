package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bigkaa/devicehub/internal/domain/model"
	"github.com/bigkaa/devicehub/internal/repository"
	"github.com/bigkaa/devicehub/internal/service"
)

type fakeJournal struct {
	filter repository.JournalFilter
	err    error
}

func (f *fakeJournal) List(_ context.Context, filter repository.JournalFilter) (*service.JournalPage, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &service.JournalPage{
		Items: []model.JournalEntry{{
			ID: 7, Device: model.DeviceFingerprint, Operation: "scan", Outcome: model.OutcomeOK,
			Duration: 2500 * time.Millisecond, CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		}},
		Total:  1,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func TestJournalList(t *testing.T) {
	j := &fakeJournal{}
	h := NewJournalHandler(j, testLogger())

	rec := httptest.NewRecorder()
	newTestAPI(&APIHandler{journal: h}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/journal?device=fingerprint&outcome=ok&since=2026-03-01T00:00:00Z&limit=10&offset=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d; тело: %s", rec.Code, rec.Body.String())
	}

	f := j.filter
	if f.Device == nil || *f.Device != model.DeviceFingerprint || f.Outcome == nil || *f.Outcome != model.OutcomeOK {
		t.Errorf("фильтр device/outcome = %v/%v", f.Device, f.Outcome)
	}
	if f.Since == nil || !f.Since.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("since = %v", f.Since)
	}
	if f.Limit != 10 || f.Offset != 5 {
		t.Errorf("limit/offset = %d/%d", f.Limit, f.Offset)
	}

	var resp journalResponse
	decodeBody(t, rec, &resp)
	if resp.Total != 1 || len(resp.Items) != 1 || resp.Items[0].DurationMS != 2500 || resp.Items[0].Operation != "scan" {
		t.Errorf("ответ = %+v", resp)
	}
}

func TestJournalList_Errors(t *testing.T) {
	tests := []struct {
		name     string
		journal  JournalLister
		target   string
		wantCode int
	}{
		{name: "журнал отключён", journal: nil, target: "/api/v1/journal", wantCode: http.StatusNotFound},
		{name: "limit не число", journal: &fakeJournal{}, target: "/api/v1/journal?limit=ten", wantCode: http.StatusBadRequest},
		{name: "since не дата", journal: &fakeJournal{}, target: "/api/v1/journal?since=yesterday", wantCode: http.StatusBadRequest},
		{name: "ошибка БД", journal: &fakeJournal{err: errors.New("conn closed")}, target: "/api/v1/journal", wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewJournalHandler(tt.journal, testLogger())
			rec := httptest.NewRecorder()
			newTestAPI(&APIHandler{journal: h}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.wantCode {
				t.Errorf("статус = %d, ожидалось %d", rec.Code, tt.wantCode)
			}
		})
	}
}
