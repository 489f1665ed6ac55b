package catalog

// Badge keys referenced by the engine's tests and family wiring.
const (
	Daredevil        = "daredevil"
	OnARoll          = "on_a_roll"
	BucketChampion   = "bucket_champion"
	BucketListLegend = "bucket_list_legend"
	ChecklistStarter = "checklist_starter"
	PackedAndReady   = "packed_and_ready"
	PreparedPro      = "prepared_pro"
	SocialButterfly  = "social_butterfly"
	SquadGoals       = "squad_goals"
	CrowdPuller      = "crowd_puller"
	WorldBuilder     = "world_builder"
)

// DefaultDefinitions is the production badge catalog.
var DefaultDefinitions = []Definition{
	{Key: Daredevil, Name: "Daredevil", Description: "Complete your first dare on a trip.", Icon: "flame",
		Category: "bucket_list", Family: "dare", Metric: "dares_completed",
		RequirementType: "count_threshold", RequirementValue: 1, Scope: "per_trip"},
	{Key: OnARoll, Name: "On a Roll", Description: "Complete 3 dares on a trip.", Icon: "zap",
		Category: "bucket_list", Family: "dare", Metric: "dares_completed",
		RequirementType: "count_threshold", RequirementValue: 3, Scope: "per_trip"},
	{Key: BucketChampion, Name: "Bucket Champion", Description: "Complete 5 dares on a trip.", Icon: "trophy",
		Category: "bucket_list", Family: "dare", Metric: "dares_completed",
		RequirementType: "count_threshold", RequirementValue: 5, Scope: "per_trip"},
	{Key: BucketListLegend, Name: "Bucket List Legend", Description: "Complete every dare on a trip's bucket list.", Icon: "crown",
		Category: "bucket_list", Family: "dare", Metric: "dares_completion_pct",
		RequirementType: "percentage_threshold", RequirementValue: 100, Scope: "per_trip"},

	{Key: ChecklistStarter, Name: "Checklist Starter", Description: "Tick off your first checklist item.", Icon: "check",
		Category: "preparation", Family: "checklist", Metric: "checklist_completed",
		RequirementType: "count_threshold", RequirementValue: 1, Scope: "per_trip"},
	{Key: PackedAndReady, Name: "Packed and Ready", Description: "Complete your whole trip checklist.", Icon: "luggage",
		Category: "preparation", Family: "checklist", Metric: "checklist_completion_pct",
		RequirementType: "percentage_threshold", RequirementValue: 100, Scope: "per_trip"},
	{Key: PreparedPro, Name: "Prepared Pro", Description: "Complete your checklist at least 3 days before departure.", Icon: "calendar-check",
		Category: "preparation", Family: "checklist", Metric: "checklist_completion_pct",
		RequirementType: "time_relative", RequirementValue: 3, Scope: "per_trip"},

	{Key: SocialButterfly, Name: "Social Butterfly", Description: "Invite someone to a trip.", Icon: "send",
		Category: "social", Family: "invitation", Metric: "invites_sent",
		RequirementType: "count_threshold", RequirementValue: 1, Scope: "per_trip"},
	{Key: SquadGoals, Name: "Squad Goals", Description: "Have 3 invitations accepted on a trip.", Icon: "users",
		Category: "social", Family: "invitation", Metric: "invites_accepted",
		RequirementType: "count_threshold", RequirementValue: 3, Scope: "per_trip"},
	{Key: CrowdPuller, Name: "Crowd Puller", Description: "Have 10 invitations accepted across all your trips.", Icon: "megaphone",
		Category: "social", Family: "invitation", Metric: "invites_accepted",
		RequirementType: "count_threshold", RequirementValue: 10, Scope: "global"},

	{Key: WorldBuilder, Name: "World Builder", Description: "Complete a dare, tick a checklist item, and invite a friend on the same trip.", Icon: "globe",
		Category: "combo", Family: "combo", Metric: "all_streams",
		RequirementType: "compound_all_of", RequirementValue: 1, Scope: "per_trip"},
}

// Default returns the validated production catalog.
func Default() *Catalog { return MustNew(DefaultDefinitions) }
