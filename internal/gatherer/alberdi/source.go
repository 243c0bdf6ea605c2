// Package alberdi defines the Cambios Alberdi feed: a WebSocket server that
// pushes one JSON snapshot of every branch on connect.
package alberdi

import (
	"cotizaciones/internal/domain"
	"cotizaciones/internal/gatherer"
	"cotizaciones/internal/normalize"
)

const (
	Code = "ALBERDI"
	Name = "Cambios Alberdi"
	URL  = "ws://cambiosalberdi.com:9300"
)

// Currencies maps the feed's icon file names to ISO codes.
// Check rates ("Cheque ...") are not tradable and are dropped.
var Currencies = normalize.CurrencyTable{
	Tokens: map[string]string{
		"dolar.png": domain.CurrencyUSD,
		"real.png":  domain.CurrencyBRL,
		"euro.png":  domain.CurrencyEUR,
		"peso.png":  domain.CurrencyARS,
	},
	ExcludeLabels: []string{"Cheque"},
}

// Branches holds the static metadata of the known branches.
var Branches = normalize.BranchTable{
	"asuncion": {
		Name:        "Asunción",
		Latitude:    -25.281411,
		Longitude:   -57.6375917,
		HasLocation: true,
		Image:       "https://lh5.googleusercontent.com/p/AF1QipMxA2Nv-mtjAzqti1pUgd_Bt3z8nfbBBizklGEw=w408-h244-k-no",
		PhoneNumber: "(021) 447.003 / (021) 447.004",
		Schedule:    "07:45 horas a 17:00 horas de Lunes a Viernes, 07:45 horas a 12:00 horas Sábados",
		Email:       "matriz@cambiosalberdi.com",
	},
	"villamorra": {
		Name:        "Villa Morra",
		Latitude:    -25.2962143,
		Longitude:   -57.5766948,
		HasLocation: true,
		Image:       "https://lh5.googleusercontent.com/p/AF1QipP9gq7gRfgXTFGdQFGJYWLZGq_9SSLJ_pKYN4Uk=w408-h306-k-no",
		PhoneNumber: "(021) 609.905 / (021) 609.906",
		Schedule:    "08:00 horas a 17:00 horas de Lunes a Viernes, 08:00 horas a 12:00 horas Sábados",
	},
	"sanlo": {
		Name:        "San Lorenzo",
		Latitude:    -25.3459184,
		Longitude:   -57.5151255,
		HasLocation: true,
		Image:       "https://lh5.googleusercontent.com/p/AF1QipM0yx3fvWQArt0kY6EwyaaAsgX1jYRy3OuIobjr=w408-h725-k-no",
		PhoneNumber: "Teléfonos: (021) 571.215 / (021) 571.216",
		Schedule:    "08:00 horas a 17:00 horas de Lunes a Viernes, 08:00 horas a 12:00 horas Sábados",
	},
	"salto": {
		Name:        "SALTO DEL GUAIRÁ",
		Latitude:    -24.055276,
		Longitude:   -54.3246485,
		HasLocation: true,
		PhoneNumber: "Teléfonos: (046) 243.158 / (046) 243.159",
		Schedule:    "08:00 horas a 16:00 horas de Lunes a Viernes, 07:30 horas a 11:30 horas Sábados",
	},
	"cde": {
		Name:        "SUCURSAL 1 CDE",
		Latitude:    -25.5098204,
		Longitude:   -54.6164127,
		HasLocation: true,
		PhoneNumber: "Teléfonos: (061) 500.135 / (061) 500.417",
		Schedule:    "07:00 horas a 17:00 horas de Lunes a Viernes, 07:00 horas a 12:00 horas Sábados",
	},
	"cde2": {
		Name:        "CDE KM 4",
		Latitude:    -25.5095271,
		Longitude:   -54.6485326,
		HasLocation: true,
		PhoneNumber: "Teléfonos: (061) 571.540 / (061) 571.536",
		Schedule:    "07:00 horas a 17:00 horas de Lunes a Viernes, 07:00 horas a 12:00 horas Sábados",
	},
	"enc": {
		Name:        "ENCARNACIÓN",
		Latitude:    -27.3314553,
		Longitude:   -55.8670186,
		HasLocation: true,
		Image:       "https://lh5.googleusercontent.com/p/AF1QipOAtjZef_kGv14qJ4h68Rt4CKOxxwYXPJW30BUY=w408-h306-k-no",
		PhoneNumber: "Teléfonos: (071) 205.154 / (071) 205.120 / (071) 205.144",
		Schedule:    "07:45 horas a 17:00 horas de Lunes a Viernes, 07:45 horas a 12:00 horas Sábados",
	},
}

// Source returns the Alberdi feed definition. url overrides the default
// endpoint when not empty.
func Source(url string) gatherer.Source {
	if url == "" {
		url = URL
	}
	return gatherer.Source{
		Code:       Code,
		Name:       Name,
		URL:        url,
		Parse:      ParsePayload,
		Currencies: Currencies,
		Branches:   Branches,
	}
}

// New creates the Alberdi gatherer.
func New(url string, opts gatherer.Options) (*gatherer.StreamGatherer, error) {
	return gatherer.NewStreamGatherer(Source(url), opts)
}
