package forum

// Topic is one newsletter edition in the forum category.
// Built once per catalog page during listing and never mutated.
type Topic struct {
	ID        int    `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Views     int    `json:"views" db:"views"`
	LikeCount int    `json:"like_count" db:"like_count"`
}

// TitleByID builds the id -> title lookup used when joining extracted
// records back to their edition.
func TitleByID(topics []Topic) map[int]string {
	titles := make(map[int]string, len(topics))
	for _, t := range topics {
		titles[t.ID] = t.Title
	}
	return titles
}
