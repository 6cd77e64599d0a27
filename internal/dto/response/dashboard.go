package response

type AdminDashboardResponse struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

type OwnerDashboardResponse struct {
	Stores        []StoreResponse `json:"stores"`
	AverageRating float64         `json:"average_rating"`
	TotalRaters   int             `json:"total_raters"`
	Raters        []RaterResponse `json:"raters"`
}
