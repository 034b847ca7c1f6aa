package scoring

// Risk weight thresholds for classifying known permissions in explanations.
const (
	highRiskThreshold   = 15
	mediumRiskThreshold = 8
)

// DefaultWeights returns the permission risk table (higher = more risky).
// Weights are process-wide configuration: loaded once at startup and never
// mutated afterwards.
func DefaultWeights() map[string]int {
	return map[string]int{
		// Location
		"android.permission.ACCESS_FINE_LOCATION":       15,
		"android.permission.ACCESS_COARSE_LOCATION":     10,
		"android.permission.ACCESS_BACKGROUND_LOCATION": 20,
		// Camera & Microphone
		"android.permission.CAMERA":       15,
		"android.permission.RECORD_AUDIO": 15,
		// Contacts & Calendar
		"android.permission.READ_CONTACTS":  12,
		"android.permission.WRITE_CONTACTS": 15,
		"android.permission.READ_CALENDAR":  8,
		"android.permission.WRITE_CALENDAR": 10,
		// Phone & SMS
		"android.permission.READ_PHONE_STATE": 10,
		"android.permission.CALL_PHONE":       12,
		"android.permission.READ_CALL_LOG":    15,
		"android.permission.READ_SMS":         15,
		"android.permission.SEND_SMS":         18,
		"android.permission.RECEIVE_SMS":      15,
		// Storage
		"android.permission.READ_EXTERNAL_STORAGE":   8,
		"android.permission.WRITE_EXTERNAL_STORAGE":  10,
		"android.permission.MANAGE_EXTERNAL_STORAGE": 15,
		// Body Sensors
		"android.permission.BODY_SENSORS":         12,
		"android.permission.ACTIVITY_RECOGNITION": 8,
		// Other sensitive
		"android.permission.READ_MEDIA_IMAGES":   8,
		"android.permission.READ_MEDIA_VIDEO":    8,
		"android.permission.READ_MEDIA_AUDIO":    5,
		"android.permission.POST_NOTIFICATIONS":  3,
		"android.permission.BLUETOOTH_CONNECT":   5,
		"android.permission.NEARBY_WIFI_DEVICES": 8,
	}
}

// CategoryRule adjusts scoring for an app category. Some categories are
// expected to use certain permissions; BasePenalty is signed - negative
// values are a trusted-category discount.
type CategoryRule struct {
	ExpectedPermissions []string
	BasePenalty         int
}

// DefaultCategoryRules returns the category adjustment table, keyed by
// normalized category name (see normalizeCategory).
func DefaultCategoryRules() map[string]CategoryRule {
	return map[string]CategoryRule{
		"social":         {ExpectedPermissions: []string{"CAMERA", "CONTACTS"}, BasePenalty: 5},
		"communication":  {ExpectedPermissions: []string{"CONTACTS", "MICROPHONE"}, BasePenalty: 0},
		"navigation":     {ExpectedPermissions: []string{"LOCATION"}, BasePenalty: 0},
		"photography":    {ExpectedPermissions: []string{"CAMERA", "STORAGE"}, BasePenalty: 0},
		"health_fitness": {ExpectedPermissions: []string{"BODY_SENSORS", "ACTIVITY"}, BasePenalty: 0},
		// Stricter expectations for finance apps
		"finance":       {BasePenalty: -5},
		"games":         {BasePenalty: 5},
		"productivity":  {BasePenalty: 0},
		"entertainment": {BasePenalty: 3},
		"shopping":      {BasePenalty: 0},
		"education":     {BasePenalty: 0},
		"utilities":     {BasePenalty: 0},
	}
}

// networkPenalties maps network usage levels to score penalties.
var networkPenalties = map[string]int{
	"LOW":    0,
	"MEDIUM": 5,
	"HIGH":   15,
}

// unknownNetworkPenalty applies when the client reports an unrecognized
// level; scoring never fails on bad taxonomy values.
const unknownNetworkPenalty = 5
