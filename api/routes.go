package api

// Backend route path constants
// All endpoint paths are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin     = "/auth/login/"
	RouteAuthRegister  = "/auth/register/"
	RouteTokenRefresh  = "/auth/token/refresh/"
	RouteAuthMe        = "/auth/me/"
	RouteProfileUpdate = "/auth/profile/update/"

	// Auth Routes - Password Management
	RouteForgotPassword = "/auth/forgot-password/"
	RouteResetPassword  = "/auth/reset-password/"

	// Film Routes (patterns, expanded with fmt.Sprintf)
	RouteFilmDetail        = "/films/%s"
	RouteFilmRate          = "/films/%s/rate"
	RouteFilmRatings       = "/films/%s/ratings"
	RouteFilmMood          = "/films/%s/mood"
	RouteFilmWatched       = "/films/%s/watched"
	RouteFilmUnwatched     = "/films/%s/unwatched"
	RouteFilmWatchedStatus = "/films/%s/watched-status"
	RouteFilmReviews       = "/films/%s/reviews"
	RouteFilmReviewCreate  = "/films/%s/reviews/create"
	RouteFilmTrailer       = "/films/%s/trailer"
	RouteFilmStreaming     = "/films/%s/streaming"

	// Review Routes
	RouteReviewDetail = "/reviews/%d"
	RouteReviewLike   = "/reviews/%d/like"
	RouteReviewFlag   = "/reviews/%d/flag"
	RouteReviewUnflag = "/reviews/%d/unflag"

	// List Routes
	RouteLists          = "/lists/"
	RouteListCreate     = "/lists/create/"
	RouteListDetail     = "/lists/%d"
	RouteListFilms      = "/lists/%d/films"
	RouteListFilmRemove = "/lists/%d/films/%s"

	// Recommendation Routes
	RouteRecommendations = "/recommendations/"
	RouteChat            = "/recommendations/chat/"

	// Search Routes
	RouteSearchIMDB = "/search/imdb/"

	// User / Following Routes
	RouteUserProfile      = "/users/%s"
	RouteUserRatings      = "/users/%s/ratings"
	RouteUserReviews      = "/users/%s/reviews"
	RouteUserLists        = "/users/%s/lists"
	RouteUserFollowToggle = "/users/%s/follow-toggle/"
	RouteUserFollowers    = "/users/%s/followers"
	RouteUserFollowing    = "/users/%s/following"
	RouteUserFollowStatus = "/users/%s/follow-status"
	RouteUserWatched      = "/users/%s/watched"
	RouteUserBadges       = "/users/%s/badges"

	// Badge Routes
	RouteBadges        = "/badges/"
	RouteBadgeProgress = "/badges/progress"
	RouteBadgeCreate   = "/badges/create"
	RouteBadgeAward    = "/badges/award"

	// Admin Routes
	RouteAdminStats         = "/admin/stats/"
	RouteAdminUsers         = "/admin/users/"
	RouteAdminUserBan       = "/admin/users/%d/ban"
	RouteAdminUserDelete    = "/admin/users/%d/delete"
	RouteAdminFilms         = "/admin/films/"
	RouteAdminFilmCreate    = "/admin/films/create"
	RouteAdminFilmUpdate    = "/admin/films/%s/update"
	RouteAdminFilmDelete    = "/admin/films/%s/delete"
	RouteAdminFlaggedReview = "/admin/reviews/flagged"
	RouteAdminRecentReviews = "/admin/reviews/recent"
	RouteAdminModerate      = "/admin/reviews/%d/moderate"
	RouteAdminBadgeStats    = "/admin/badges/stats"
	RouteAdminMoodStats     = "/admin/moods/stats"
	RouteAdminLogs          = "/admin/logs"
)
