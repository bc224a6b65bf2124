package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shalini31102/studentApp/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// ReportPeriod binds the `month` & `year` query params. Unparsable values are left at 0.
type ReportPeriod struct {
	Month int
	Year  int
}

func (p *ReportPeriod) Bind(ctx echo.Context) {
	p.Month, _ = strconv.Atoi(strings.TrimSpace(ctx.QueryParam("month")))
	p.Year, _ = strconv.Atoi(strings.TrimSpace(ctx.QueryParam("year")))
}
