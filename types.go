package portfolio

import "time"

// Content block types. Blocks render top-to-bottom in the order submitted;
// the stores never reorder them.
const (
	BlockParagraph = "paragraph"
	BlockHeading   = "heading"
	BlockCode      = "code"
	BlockQuote     = "quote"
)

// ContentBlock is one unit of post body content. Level is only meaningful
// for heading blocks (1-6) and is omitted from the encoded forms otherwise.
type ContentBlock struct {
	Type  string `json:"type" bson:"type"`
	Text  string `json:"text" bson:"text"`
	Level int    `json:"level,omitempty" bson:"level,omitempty"`
}

// BlogPost is the canonical blog entry stored by either backend and served
// by the API. Slug is the identity key and is globally unique. Date is a
// human-facing display string ("Jan 2, 2006" form); CreatedAt and UpdatedAt
// carry the sortable timestamps.
type BlogPost struct {
	Slug          string         `json:"slug" bson:"slug"`
	Title         string         `json:"title" bson:"title"`
	Excerpt       string         `json:"excerpt" bson:"excerpt"`
	Date          string         `json:"date" bson:"date"`
	ReadTime      string         `json:"readTime" bson:"readTime"`
	FeaturedImage string         `json:"featuredImage" bson:"featuredImage"`
	ImageAlt      string         `json:"imageAlt" bson:"imageAlt"`
	Author        string         `json:"author" bson:"author"`
	Tags          []string       `json:"tags" bson:"tags"`
	Content       []ContentBlock `json:"content" bson:"content"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// PostSubmission is the loosely-typed creation request. Every field is
// optional; the ingestor fills documented defaults for anything absent.
// Slug and read time are always server-assigned, never taken from here.
type PostSubmission struct {
	Title         string         `json:"title"`
	Excerpt       string         `json:"excerpt"`
	Date          string         `json:"date"`
	FeaturedImage string         `json:"featuredImage"`
	ImageAlt      string         `json:"imageAlt"`
	Author        string         `json:"author"`
	Tags          []string       `json:"tags"`
	Content       []ContentBlock `json:"content"`
}

// ContactSubmission is a contact-form inquiry.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
	Service string `json:"service"`
	Message string `json:"message"`
	Budget  string `json:"budget"`
}

// Subscriber is one newsletter signup.
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// Image is metadata for an uploaded featured image.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploadedAt"`
}
