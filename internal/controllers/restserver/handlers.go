package restserver

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/chrissnell/moonhike/internal/constants"
	"github.com/chrissnell/moonhike/pkg/config"
	"github.com/chrissnell/moonhike/pkg/evaluator"
	"github.com/chrissnell/moonhike/pkg/lunar"
	"github.com/chrissnell/moonhike/pkg/responseformat"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

var (
	errInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
	errInvalidInstant  = errors.New("invalid time, expected RFC3339")
	errInvalidBool     = errors.New("expected true or false")
	errInvalidNumber   = errors.New("expected a number")
	errUnknownPreset   = errors.New("unknown preset, expected early or late")
	errUnknownActivity = errors.New("unknown activity, expected hiking or stargazing")
)

// queryParams maps evaluator field names onto the query parameters that set them
var queryParams = map[string]string{
	"coordinates":     "lat",
	"timezone":        "tz",
	"start_hike_time": "hike_start",
	"end_hike_time":   "hike_end",
	"start_time":      "gaze_start",
	"end_time":        "gaze_end",
}

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	configProvider config.ConfigProvider
	cfg            *config.ConfigData
	evaluator      *evaluator.Evaluator
	formatter      *responseformat.Formatter
	logger         *zap.SugaredLogger
	now            func() time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(configProvider config.ConfigProvider, cfg *config.ConfigData, ev *evaluator.Evaluator, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{
		configProvider: configProvider,
		cfg:            cfg,
		evaluator:      ev,
		formatter:      responseformat.NewFormatter(cfg.Server.EnableCORS),
		logger:         logger,
		now:            time.Now,
	}
}

// GetNights evaluates a range of nights at the requested or default location
func (h *Handlers) GetNights(w http.ResponseWriter, req *http.Request) {
	h.serveNights(w, req, h.cfg.Location, h.cfg.Hiking.MinIllumination)
}

// GetSiteNights evaluates a range of nights at a configured site
func (h *Handlers) GetSiteNights(w http.ResponseWriter, req *http.Request) {
	sites, err := h.configProvider.GetSites()
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	site, err := config.FindSite(sites, mux.Vars(req)["site"])
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	loc := config.LocationData{
		Name:      site.Name,
		Latitude:  site.Latitude,
		Longitude: site.Longitude,
		Timezone:  site.Timezone,
	}
	h.serveNights(w, req, loc, site.HikingThreshold(h.cfg.Hiking.MinIllumination))
}

func (h *Handlers) serveNights(w http.ResponseWriter, req *http.Request, loc config.LocationData, minIllumination float64) {
	nq, err := h.parseNights(req.URL.Query(), loc, minIllumination)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	results, err := h.evaluator.EvaluateRange(req.Context(), nq.req)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	resp := NightsResponse{
		RequestID:  requestID(req),
		Location:   nq.location,
		Start:      nq.req.Start.Format(time.DateOnly),
		End:        nq.req.End.Format(time.DateOnly),
		Hiking:     nq.req.Hiking,
		StarGazing: nq.req.StarGazing,
		Summary:    evaluator.Summarize(results),
		Nights:     results,
	}
	if nq.goodOnly != "" {
		resp.Nights = evaluator.FilterGood(results, nq.goodOnly)
	}

	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.logger.Errorw("error writing response", "request_id", requestID(req), "error", err)
	}
}

// GetSites lists the configured observing sites
func (h *Handlers) GetSites(w http.ResponseWriter, req *http.Request) {
	sites, err := h.configProvider.GetSites()
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	if sites == nil {
		sites = []config.SiteData{}
	}

	resp := SitesResponse{
		Default: locationInfo(h.cfg.Location),
		Sites:   sites,
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.logger.Errorw("error writing response", "request_id", requestID(req), "error", err)
	}
}

// GetMoonPhase reports the Moon's phase at ?time=, or now
func (h *Handlers) GetMoonPhase(w http.ResponseWriter, req *http.Request) {
	t := h.now()
	if s := req.URL.Query().Get("time"); s != "" {
		var err error
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			h.writeError(w, req, badParam("time", s, errInvalidInstant))
			return
		}
	}

	phase := lunar.Calculate(t)
	resp := MoonPhaseResponse{
		Time:         t,
		Illumination: phase.Illumination * 100,
		AgeDays:      phase.AgeDays,
		Waxing:       phase.IsWaxing,
		PhaseName:    phase.PhaseName,
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.logger.Errorw("error writing response", "request_id", requestID(req), "error", err)
	}
}

// GetHealth reports that the server is up
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	if err := h.formatter.WriteResponse(w, req, HealthResponse{Status: "ok", Version: constants.Version}, nil); err != nil {
		h.logger.Errorw("error writing response", "request_id", requestID(req), "error", err)
	}
}

// writeError maps err onto a status code: rejected inputs are 400, unknown
// sites 404 and everything else 500
func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, err error) {
	body := responseformat.ErrorBody{Error: err.Error(), RequestID: requestID(req)}
	status := http.StatusInternalServerError

	var cfgErr *evaluator.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusBadRequest
		body.Field = cfgErr.Field
		if p, ok := queryParams[cfgErr.Field]; ok {
			body.Field = p
		}
	case errors.Is(err, config.ErrSiteNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Errorw("request failed", "request_id", body.RequestID, "path", req.URL.Path, "error", err)
	}

	if werr := h.formatter.WriteError(w, req, status, body); werr != nil {
		h.logger.Errorw("error writing error response", "request_id", body.RequestID, "error", werr)
	}
}

type nightsQuery struct {
	location LocationInfo
	req      evaluator.Request
	goodOnly evaluator.Activity
}

// parseNights builds an evaluation request from query parameters, filling
// anything omitted from loc and the configured defaults
func (h *Handlers) parseNights(q url.Values, loc config.LocationData, minIllumination float64) (nightsQuery, error) {
	var nq nightsQuery
	nq.location = locationInfo(loc)

	latS, lonS := q.Get("lat"), q.Get("lon")
	if latS != "" || lonS != "" {
		if latS == "" || lonS == "" {
			return nq, badParam("lat", latS+","+lonS, evaluator.ErrInvalidCoordinates)
		}
		lat, err := strconv.ParseFloat(latS, 64)
		if err != nil {
			return nq, badParam("lat", latS, errInvalidNumber)
		}
		lon, err := strconv.ParseFloat(lonS, 64)
		if err != nil {
			return nq, badParam("lon", lonS, errInvalidNumber)
		}
		nq.location = LocationInfo{Latitude: lat, Longitude: lon, Timezone: loc.Timezone}
	}
	if tz := q.Get("tz"); tz != "" {
		nq.location.Timezone = tz
	}
	tzLoc, err := time.LoadLocation(nq.location.Timezone)
	if err != nil || nq.location.Timezone == "" {
		return nq, badParam("tz", nq.location.Timezone, evaluator.ErrInvalidTimezone)
	}

	// The range defaults to today onward in the evaluation timezone
	y, m, d := h.now().In(tzLoc).Date()
	nq.req.Start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if s := q.Get("start"); s != "" {
		if nq.req.Start, err = time.Parse(time.DateOnly, s); err != nil {
			return nq, badParam("start", s, errInvalidDate)
		}
	}
	nq.req.End = nq.req.Start.AddDate(0, 0, h.cfg.Server.DefaultRangeDays-1)
	if s := q.Get("end"); s != "" {
		if nq.req.End, err = time.Parse(time.DateOnly, s); err != nil {
			return nq, badParam("end", s, errInvalidDate)
		}
	}

	coords := evaluator.Coordinates{Latitude: nq.location.Latitude, Longitude: nq.location.Longitude}
	nq.req.Hiking = evaluator.HikingConditions{
		Coordinates:     coords,
		Timezone:        nq.location.Timezone,
		MinIllumination: minIllumination,
		StartHikeTime:   stringParam(q, "hike_start", h.cfg.Hiking.StartTime),
		EndHikeTime:     stringParam(q, "hike_end", h.cfg.Hiking.EndTime),
	}
	if nq.req.Hiking.MinIllumination, err = floatParam(q, "min_illumination", minIllumination); err != nil {
		return nq, err
	}

	gaze, err := boolParam(q, "stargazing", true)
	if err != nil {
		return nq, err
	}
	if gaze {
		sg := evaluator.StarGazingConditions{
			Coordinates: coords,
			Timezone:    nq.location.Timezone,
			StartTime:   h.cfg.StarGazing.StartTime,
			EndTime:     h.cfg.StarGazing.EndTime,
		}
		if preset := q.Get("gaze_preset"); preset != "" {
			start, end, ok := evaluator.GazePreset(preset)
			if !ok {
				return nq, badParam("gaze_preset", preset, errUnknownPreset)
			}
			sg.StartTime, sg.EndTime = start, end
		}
		sg.StartTime = stringParam(q, "gaze_start", sg.StartTime)
		sg.EndTime = stringParam(q, "gaze_end", sg.EndTime)
		if sg.MaxIllumination, err = floatParam(q, "max_illumination", h.cfg.StarGazing.MaxIllumination); err != nil {
			return nq, err
		}
		if sg.PreferNoMoon, err = boolParam(q, "prefer_no_moon", h.cfg.StarGazing.PreferNoMoon); err != nil {
			return nq, err
		}
		nq.req.StarGazing = &sg
	}

	if s := q.Get("good_only"); s != "" {
		a, ok := evaluator.ParseActivity(s)
		if !ok {
			return nq, badParam("good_only", s, errUnknownActivity)
		}
		nq.goodOnly = a
	}

	return nq, nil
}

func locationInfo(loc config.LocationData) LocationInfo {
	return LocationInfo{
		Name:      loc.Name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Timezone:  loc.Timezone,
	}
}

func badParam(field, value string, err error) error {
	return &evaluator.ConfigError{Field: field, Value: value, Err: err}
}

func stringParam(q url.Values, name, def string) string {
	if s := q.Get(name); s != "" {
		return s
	}
	return def
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, badParam(name, s, errInvalidNumber)
	}
	return v, nil
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	s := q.Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, badParam(name, s, errInvalidBool)
	}
	return v, nil
}
