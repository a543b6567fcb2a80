// file: internals/features/pages/duration/plural.go

package duration

import (
	"strconv"

	"parasempre_backend/internals/constants"
)

type unit struct{ one, many string }

func (u unit) format(n int) string {
	if n == 1 {
		return "1 " + u.one
	}
	return strconv.Itoa(n) + " " + u.many
}

type unitSet struct {
	years, months, days, hours, minutes, seconds unit
}

var units = map[string]unitSet{
	constants.LangPT: {
		years:   unit{"ano", "anos"},
		months:  unit{"mês", "meses"},
		days:    unit{"dia", "dias"},
		hours:   unit{"hora", "horas"},
		minutes: unit{"minuto", "minutos"},
		seconds: unit{"segundo", "segundos"},
	},
	constants.LangEN: {
		years:   unit{"year", "years"},
		months:  unit{"month", "months"},
		days:    unit{"day", "days"},
		hours:   unit{"hour", "hours"},
		minutes: unit{"minute", "minutes"},
		seconds: unit{"second", "seconds"},
	},
	constants.LangES: {
		years:   unit{"año", "años"},
		months:  unit{"mes", "meses"},
		days:    unit{"día", "días"},
		hours:   unit{"hora", "horas"},
		minutes: unit{"minuto", "minutos"},
		seconds: unit{"segundo", "segundos"},
	},
}

func unitsFor(lang string) unitSet {
	return units[constants.ResolveLang(lang)]
}
