package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ecowall/models"
)

const (
	SortByCreatedAt = "createdAt"
	SortByLikes     = "likes"

	DefaultPageSize = 10
	MaxPageSize     = 50
)

// likedBy stays server-side only.
var publicProjection = bson.M{"likedBy": 0}

// PostStore runs all post queries and mutations against a single Mongo
// collection.
type PostStore struct {
	Posts *mongo.Collection
}

func NewPostStore(posts *mongo.Collection) *PostStore {
	return &PostStore{Posts: posts}
}

type CreateInput struct {
	Title       string
	Description string
	Category    string
	Author      string
	Image       *models.ImageMeta
}

// Create validates the input, fills defaults and inserts the post. The
// ecoPoints value is computed here, once, from the category and never
// recalculated afterwards.
func (s *PostStore) Create(ctx context.Context, in CreateInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	author := strings.TrimSpace(in.Author)

	switch {
	case title == "":
		return nil, validationErr("Title is required")
	case utf8.RuneCountInString(title) > models.MaxTitleLen:
		return nil, validationErr(fmt.Sprintf("Title must be at most %d characters", models.MaxTitleLen))
	case description == "":
		return nil, validationErr("Description is required")
	case utf8.RuneCountInString(description) > models.MaxDescriptionLen:
		return nil, validationErr(fmt.Sprintf("Description must be at most %d characters", models.MaxDescriptionLen))
	case category == "":
		return nil, validationErr("Category is required")
	case !models.ValidCategory(category):
		return nil, validationErr("Unknown category: " + category)
	}
	if in.Image == nil {
		return nil, ErrMissingImage
	}
	if author == "" {
		author = models.DefaultAuthor
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Category:    category,
		Author:      author,
		Image:       *in.Image,
		Likes:       0,
		LikedBy:     []string{},
		Comments:    []models.Comment{},
		Status:      models.StatusApproved,
		EcoPoints:   models.EcoPointsFor(category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.Posts.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

type ListOptions struct {
	Category  string // empty or "all" means every category
	SortBy    string // createdAt or likes
	SortOrder string // asc or desc, desc by default
	Page      int64
	Limit     int64
}

// List returns one page of approved posts plus the total count matching the
// filter. Default order is newest first.
func (s *PostStore) List(ctx context.Context, opts ListOptions) ([]models.Post, int64, error) {
	filter := bson.M{"status": models.StatusApproved}
	if opts.Category != "" && opts.Category != "all" {
		filter["category"] = opts.Category
	}

	sortField := SortByCreatedAt
	if opts.SortBy == SortByLikes {
		sortField = SortByLikes
	}
	direction := -1
	if opts.SortOrder == "asc" {
		direction = 1
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: direction}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetProjection(publicProjection)

	cursor, err := s.Posts.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}

	total, err := s.Posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var post models.Post
	err = s.Posts.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(publicProjection)).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

// ToggleLike flips actorID's membership in the likedBy set and keeps the
// likes counter equal to the set's cardinality. Both directions use a single
// conditional update so concurrent toggles by different actors cannot lose
// each other's writes.
func (s *PostStore) ToggleLike(ctx context.Context, id, actorID string) (likes int, hasLiked bool, err error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, false, ErrNotFound
	}

	after := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})

	var doc struct {
		Likes int `bson:"likes"`
	}

	// A concurrent toggle by the same actor can make both conditional
	// updates miss; retry before concluding the post is gone.
	for attempt := 0; attempt < 3; attempt++ {
		now := time.Now().UTC()

		err = s.Posts.FindOneAndUpdate(ctx,
			bson.M{"_id": oid, "likedBy": bson.M{"$ne": actorID}},
			bson.M{
				"$addToSet": bson.M{"likedBy": actorID},
				"$inc":      bson.M{"likes": 1},
				"$set":      bson.M{"updatedAt": now},
			},
			after).Decode(&doc)
		if err == nil {
			return doc.Likes, true, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, fmt.Errorf("add like: %w", err)
		}

		err = s.Posts.FindOneAndUpdate(ctx,
			bson.M{"_id": oid, "likedBy": actorID},
			bson.M{
				"$pull": bson.M{"likedBy": actorID},
				"$inc":  bson.M{"likes": -1},
				"$set":  bson.M{"updatedAt": now},
			},
			after).Decode(&doc)
		if err == nil {
			return doc.Likes, false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, fmt.Errorf("remove like: %w", err)
		}

		exists, err := s.exists(ctx, oid)
		if err != nil {
			return 0, false, err
		}
		if !exists {
			return 0, false, ErrNotFound
		}
	}
	return 0, false, errors.New("toggle like: too much contention")
}

func (s *PostStore) exists(ctx context.Context, oid primitive.ObjectID) (bool, error) {
	count, err := s.Posts.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return count > 0, nil
}

// AddComment appends a comment to the post and returns it. Comments are
// append-only; nothing ever edits or removes them.
func (s *PostStore) AddComment(ctx context.Context, id, author, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationErr("Comment text is required")
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = models.DefaultAuthor
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	comment := models.Comment{Author: author, Text: text, CreatedAt: now}

	res, err := s.Posts.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"comments": comment},
			"$set":  bson.M{"updatedAt": now},
		})
	if err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &comment, nil
}

// Delete removes the post and returns its image metadata so the caller can
// clean the file up; the store never touches the filesystem.
func (s *PostStore) Delete(ctx context.Context, id string) (*models.ImageMeta, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var post models.Post
	err = s.Posts.FindOneAndDelete(ctx,
		bson.M{"_id": oid},
		options.FindOneAndDelete().SetProjection(bson.M{"image": 1})).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return &post.Image, nil
}
