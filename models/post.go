package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post categories accepted by the community wall.
const (
	CategoryTreePlanting      = "tree-planting"
	CategoryRecycling         = "recycling"
	CategoryEnergySaving      = "energy-saving"
	CategoryWaterConservation = "water-conservation"
	CategoryOther             = "other"
)

// Post moderation statuses. Posts are auto-approved on creation; the field
// stays in the document and in responses for API compatibility.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500

	DefaultAuthor = "Anonymous"
)

var ecoPointsByCategory = map[string]int{
	CategoryTreePlanting:      50,
	CategoryRecycling:         30,
	CategoryEnergySaving:      40,
	CategoryWaterConservation: 35,
	CategoryOther:             20,
}

const fallbackEcoPoints = 20

// EcoPointsFor returns the point value awarded for a category. Unknown
// categories earn the fallback value.
func EcoPointsFor(category string) int {
	if points, ok := ecoPointsByCategory[category]; ok {
		return points
	}
	return fallbackEcoPoints
}

// ValidCategory reports whether category is one of the accepted values.
func ValidCategory(category string) bool {
	_, ok := ecoPointsByCategory[category]
	return ok
}

// ImageMeta describes the single image attached to a post. Written once at
// creation, never mutated.
type ImageMeta struct {
	Filename     string `bson:"filename" json:"filename"`
	RelativePath string `bson:"relativePath" json:"relativePath"`
	MimeType     string `bson:"mimeType" json:"mimeType"`
	SizeBytes    int64  `bson:"sizeBytes" json:"sizeBytes"`
}

type Comment struct {
	Author    string    `bson:"author" json:"author"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Author      string             `bson:"author" json:"author"`
	Image       ImageMeta          `bson:"image" json:"image"`
	Likes       int                `bson:"likes" json:"likes"`
	LikedBy     []string           `bson:"likedBy,omitempty" json:"-"` // never serialized to clients
	Comments    []Comment          `bson:"comments" json:"comments"`
	Status      string             `bson:"status" json:"status"`
	EcoPoints   int                `bson:"ecoPoints" json:"ecoPoints"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	ImageURL    string             `bson:"-" json:"imageUrl,omitempty"` // populated in responses only
}
