package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/planora-app/planora/internal/models"
)

// PriorityRank orders task priorities for sorting; higher sorts first.
func PriorityRank(priority string) int {
	switch priority {
	case models.PriorityHigh:
		return 3
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 1
	}
	return 0
}

// TaskRepository handles task document operations. Every mutation is scoped
// by both task id and owner; a zero-match update or delete is a not-found,
// never a silent success.
type TaskRepository struct {
	tasks *mongo.Collection
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(tasks *mongo.Collection) *TaskRepository {
	return &TaskRepository{tasks: tasks}
}

// taskDoc adds the derived priority rank used for sorting.
type taskDoc struct {
	models.Task  `bson:",inline"`
	PriorityRank int `bson:"priority_rank"`
}

// Create inserts a new task owned by userID.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	doc := taskDoc{Task: *task, PriorityRank: PriorityRank(task.Priority)}
	res, err := r.tasks.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid
	}
	return nil
}

// ListForUser returns all of a user's tasks: incomplete before completed,
// then soonest deadline, then highest priority.
func (r *TaskRepository) ListForUser(ctx context.Context, userID string) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "completed", Value: 1},
		{Key: "deadline", Value: 1},
		{Key: "priority_rank", Value: -1},
	})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

// TopIncomplete returns up to limit pending tasks for the dashboard,
// soonest deadline and highest priority first.
func (r *TaskRepository) TopIncomplete(ctx context.Context, userID string, limit int64) ([]models.Task, error) {
	opts := options.Find().
		SetSort(bson.D{
			{Key: "deadline", Value: 1},
			{Key: "priority_rank", Value: -1},
		}).
		SetLimit(limit)
	return r.find(ctx, bson.M{"user_id": userID, "completed": false}, opts)
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Task, error) {
	cursor, err := r.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// TaskUpdate is a partial field merge. Pointer fields change only when
// non-nil; the Set flags distinguish clearing an optional field from
// leaving it alone.
type TaskUpdate struct {
	Name        *string
	Priority    *string
	Duration    *float64
	DurationSet bool
	Deadline    *time.Time
	DeadlineSet bool
	Completed   *bool
}

// BuildSet converts the partial update into a Mongo $set document.
// ErrNoFields signals an empty update body.
func (u TaskUpdate) BuildSet(now time.Time) (bson.M, error) {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Priority != nil {
		set["priority"] = *u.Priority
		set["priority_rank"] = PriorityRank(*u.Priority)
	}
	if u.DurationSet {
		set["duration"] = u.Duration
	}
	if u.DeadlineSet {
		set["deadline"] = u.Deadline
	}
	if u.Completed != nil {
		set["completed"] = *u.Completed
	}
	if len(set) == 0 {
		return nil, ErrNoFields
	}
	set["updated_at"] = now
	return set, nil
}

// Update applies a partial update to a task owned by userID and returns the
// updated document.
func (r *TaskRepository) Update(ctx context.Context, taskID, userID string, u TaskUpdate) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, ErrInvalidID
	}

	set, err := u.BuildSet(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	res, err := r.tasks.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}

	var task models.Task
	if err := r.tasks.FindOne(ctx, bson.M{"_id": oid}).Decode(&task); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return &task, nil
}

// Delete removes a task owned by userID.
func (r *TaskRepository) Delete(ctx context.Context, taskID, userID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCompleted toggles a task's completion flag.
func (r *TaskRepository) SetCompleted(ctx context.Context, taskID, userID string, completed bool) (*models.Task, error) {
	return r.Update(ctx, taskID, userID, TaskUpdate{Completed: &completed})
}
