package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Weeks/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Weeks"
	AppID             = "com.github.tartampluch.go-weeks"
	CommandName       = "go-weeks"
	KeyringService    = "com.github.tartampluch.go-weeks"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// FilePermPublic represents -rw-r--r--, used for exported calendars.
	FilePermPublic fs.FileMode = 0644

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Timeline Constants
// -----------------------------------------------------------------------------

const (
	// YearsHorizon is the span of the visualization.
	YearsHorizon = 100

	// WeeksPerYear is the fixed approximation used for ages and row widths.
	// It ignores leap years on purpose; outputs must stay stable.
	WeeksPerYear = 52

	// TotalWeeks is the number of cells generated (100 × 52).
	TotalWeeks = YearsHorizon * WeeksPerYear

	DaysPerWeek    = 7
	YearsPerDecade = 10

	// DecadeCentury is the first decade that keeps its century in labels ("2000s").
	DecadeCentury = 2000
	CenturyBase   = 1900

	// Default birth date (June 12, 1993).
	DefaultBirthYear  = 1993
	DefaultBirthMonth = time.June
	DefaultBirthDay   = 12

	// AgeMarkerStep controls how often the grid prints an age label.
	AgeMarkerStep = 10

	// LegendDecadeLimit caps the number of decades listed in the legend.
	LegendDecadeLimit = 6
)

// DefaultBirthDate returns the fixed starting point of the timeline.
func DefaultBirthDate() time.Time {
	return time.Date(DefaultBirthYear, DefaultBirthMonth, DefaultBirthDay, 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug      = "debug"
	FlagMilestones = "milestones"
	FlagProfile    = "profile"
	FlagLang       = "lang"
	FlagPort       = "port"
	FlagOut        = "out"
	FlagNoColor    = "no-color"

	FlagDescDebug      = "Enable debug logging"
	FlagDescMilestones = "Path to the milestones YAML file"
	FlagDescProfile    = "Path to a vCard holding the subject's name and birth date"
	FlagDescLang       = "Language used for labels (ISO 639-1)"
	FlagDescPort       = "Port the HTTP feed listens on"
	FlagDescOut        = "Write the calendar to this file instead of stdout"
	FlagDescNoColor    = "Disable colored output"

	CmdGrid    = "grid"
	CmdStats   = "stats"
	CmdEvents  = "events"
	CmdWeek    = "week"
	CmdICS     = "ics"
	CmdServe   = "serve"
	CmdVersion = "version"

	CmdShortRoot    = "Your life in weeks, from birth to your 100th birthday"
	CmdShortGrid    = "Print the weeks grid"
	CmdShortStats   = "Print weeks lived and remaining"
	CmdShortEvents  = "List milestone events"
	CmdShortWeek    = "Show the details of a single week"
	CmdShortICS     = "Export milestones as an iCalendar file"
	CmdShortServe   = "Serve weeks, stats and calendar over HTTP"
	CmdShortVersion = "Show application version"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// -----------------------------------------------------------------------------
// Environment Variables
// -----------------------------------------------------------------------------

const (
	EnvMilestones = "WEEKS_MILESTONES"
	EnvProfile    = "WEEKS_PROFILE"
	EnvBirthDate  = "WEEKS_BIRTH_DATE"
	EnvSourceURL  = "WEEKS_SOURCE_URL"
	EnvSourceUser = "WEEKS_SOURCE_USER"
	EnvPort       = "WEEKS_PORT"
	EnvLang       = "WEEKS_LANG"
	EnvRefreshMin = "WEEKS_REFRESH_MIN"
)

// SupportedLanguages defines the list of available label languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyTitle          = "title"
	TKeyWeeksLived     = "stat_weeks_lived"     // Requires Count
	TKeyWeeksRemaining = "stat_weeks_remaining" // Requires Count
	TKeyPercentLived   = "stat_percent_lived"   // Requires Percent
	TKeyCurrentAge     = "stat_current_age"     // Requires Age
	TKeyLegendFuture   = "legend_future"
	TKeyWeekDate       = "week_date"  // Requires Date, Age
	TKeyWeekIndex      = "week_index" // Requires Index
	TKeyNoEvents       = "no_events"
	TKeyFormatDate     = "format_date_long" // Date format pattern (e.g., "January 2, 2006")
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb      = "web"
	SourceModeLocal    = "local"
	DefaultPort        = "18081"
	DefaultRefreshMin  = 60
	DefaultLanguage    = "en"
	DefaultMilestones  = "data/weeks.yml"
	UIDSalt            = "go-weeks-v1-" // Salt for deterministic UID generation
	DefaultProfileName = "Me"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Weeks//Engine//EN"
	ICalCalName = "Life in Weeks"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goweeks"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRefresh     = "REFRESH-INTERVAL"
	PropDescription = "DESCRIPTION"
	PropLocation    = "LOCATION"
	PropCategories  = "CATEGORIES"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"

	DefaultICalRefresh = 24 * time.Hour
	CategoryMilestone  = "MILESTONE"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatKey is the layout of milestone keys ("YYYY-MM-DD").
	DateFormatKey = "2006-01-02"

	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	DateFormatLong = "January 2, 2006"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s@%s"

	// Display formats
	FormatPercent = "%.1f"
	FormatDecade  = "%ds"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteWeeks    = "/weeks.json"
	RouteStats    = "/stats.json"
	RouteCalendar = "/calendar.ics"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrLocalPathEmpty  = "configuration error: milestones path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrMilestonesRead  = "configuration error: failed to read milestones"
	ErrMilestonesEmpty = "configuration error: milestones source is empty"
	ErrMilestonesShape = "configuration error: milestones must be a mapping of dates to lists"
	ErrMilestoneDate   = "configuration error: malformed milestone date"
	ErrMilestoneItems  = "configuration error: malformed milestone fragments"
	ErrProfileRead     = "configuration error: failed to read profile"
	ErrProfileBirthday = "configuration error: profile has no usable birth date"
	ErrBirthDate       = "configuration error: invalid birth date"
	ErrRefreshInterval = "configuration error: refresh interval must be a positive number of minutes"
	ErrNoWeeks         = "no weeks to aggregate"
	ErrWeekIndex       = "week index out of range"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrJSONEncode      = "failed to encode JSON document"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrWriteFile       = "failed to write output file"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Weeks initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackTitle = "Untitled milestone"

	// StubVCalendar is the minimal valid iCalendar object used when no milestone is indexed.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted    = "Weeks generation started"
	MsgSyncReq        = "Refresh requested"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgAppStop        = "Application stopped gracefully"
	MsgGenSuccess     = "Weeks generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Weeks cache updated"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgEventDropped   = "Milestone outside the timeline, not indexed"
	MsgEventsLoaded   = "Milestones loaded"
	MsgProfileLoaded  = "Profile loaded"
	MsgCalendarWrote  = "Calendar written"
	MsgKeepingLastRun = "Keeping previous snapshot"
	MsgSyncFailed     = "Weeks generation failed"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyRoute     = "route"
	LogKeyManual    = "manual"
	LogKeyStats     = "stats"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDate      = "date"
	LogKeyDuration  = "duration_ms"
	LogKeyWeeks     = "weeks"
	LogKeyLived     = "weeks_lived"
	LogKeyIndexed   = "events_indexed"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompApp     = "app"
	CompEngine  = "engine"
	CompLoader  = "loader"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)
