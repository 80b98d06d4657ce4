package reviews

import "time"

// Author identifies the review owner. Only the matching uid may update or
// delete the review.
type Author struct {
	Name string `json:"name"`
	UID  string `json:"uid"`
}

// Review is one customer review of a meal. The timestamp is client-assigned
// while provisional and replaced by the server-assigned value once the next
// remote snapshot lands.
type Review struct {
	ID        Identifier `json:"id"`
	Comment   string     `json:"comment"`
	Rating    int        `json:"rating"`
	Author    Author     `json:"author"`
	Timestamp time.Time  `json:"timestamp"`
}
