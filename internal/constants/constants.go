package constants

// Centralized constants for env keys, headers, routes and messages.
const (
	// Environment variable keys
	EnvConfigPath = "WOORIBAN_CONFIG"
	EnvDBPath     = "WOORIBAN_DB"
	EnvDebug      = "WOORIBAN_DEBUG"

	// Identity headers. Authentication itself lives in front of this
	// service; handlers only consume the resolved identity.
	HeaderPlayerID   = "X-Player-ID"
	HeaderPlayerName = "X-Player-Name"
)

// Routes used by the backend router
const (
	RouteAPIPrefix       = "/api"
	RouteSkills          = "/skills"
	RouteLeaderboard     = "/leaderboard"
	RoutePlayerStats     = "/players/:playerID/stats"
	RouteBattles         = "/battles"
	RouteBattleByKey     = "/battles/:battleKey"
	RouteBattleAccept    = "/battles/:battleKey/accept"
	RouteBattleReject    = "/battles/:battleKey/reject"
	RouteBattleCancel    = "/battles/:battleKey/cancel"
	RouteBattleAnswer    = "/battles/:battleKey/answer"
	RouteBattleAction    = "/battles/:battleKey/action"
	RouteBattleFlee      = "/battles/:battleKey/flee"
	RouteBattleSubscribe = "/ws/battles/:battleKey"
	RouteVersion         = "/version"
)

// Common JSON response keys
const (
	JSONKeyError  = "error"
	JSONKeyBattle = "battle"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest    = "Invalid request"
	ErrInvalidBattleKey  = "Invalid battle key"
	ErrBattleNotFound    = "Battle not found"
	ErrIdentityRequired  = "Player identity required"
	ErrNotInThisBattle   = "Player not in this battle"
	ErrChallengeClosed   = "Challenge is no longer open"
	ErrPlayerBusy        = "Player already has an active battle"
	ErrSelfChallenge     = "You cannot challenge yourself"
	ErrUnknownSpecies    = "Unknown pet species"
	ErrNotActionPhase    = "Battle is not in the action phase"
	ErrInvalidAction     = "Invalid action for this turn"
	ErrSkillNotEquipped  = "Skill is not equipped"
	ErrInsufficientSP    = "Not enough SP"
	ErrEmptyAnswer       = "Answer text is required"
	ErrFailedStoreEvent  = "Failed to store battle event"
	ErrFailedFetchStats  = "Failed to fetch stats"
	ErrFailedFetchBoard  = "Failed to fetch leaderboard"
	ErrFailedSubscribe   = "Failed to open battle subscription"
	ErrFailedCreate      = "Failed to create challenge"
)

// Logging field names
const (
	LogFieldBattleKey = "battle_key"
	LogFieldPlayerID  = "player_id"
	LogFieldAddr      = "addr"
)
