package engine

import (
	"time"

	"billiard/internal/billing"
	"billiard/internal/domain"
)

// TableView is one row of the floor overview.
type TableView struct {
	TableNo int
	Status  domain.TableStatus
	Session *domain.TableSession
	Totals  *billing.Totals
}

// Tables lists every configured table with its live state as of now.
func Tables(doc *domain.Document, now time.Time) []TableView {
	views := make([]TableView, 0, doc.Settings.TableCount)
	for no := 1; no <= doc.Settings.TableCount; no++ {
		view := TableView{TableNo: no, Status: domain.TableStatusIdle}
		if session := ActiveSessionForTable(doc, no); session != nil {
			totals := billing.Calculate(session, doc.Settings, now)
			view.Status = session.TableStatus()
			view.Session = session
			view.Totals = &totals
		}
		views = append(views, view)
	}
	return views
}
