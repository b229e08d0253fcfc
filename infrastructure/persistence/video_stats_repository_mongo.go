package persistence

import (
	"context"

	"channel-insights/domain/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const videoStatsCollection = "video_stats"

type bulkWriter interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongo.BulkWriteResult, error)
}

// VideoStatsRepositoryMongo upserts one document per video, keyed by video id
type VideoStatsRepositoryMongo struct {
	coll bulkWriter
}

func NewVideoStatsRepositoryMongo(client *mongo.Client, database string) *VideoStatsRepositoryMongo {
	return &VideoStatsRepositoryMongo{coll: client.Database(database).Collection(videoStatsCollection)}
}

func (r *VideoStatsRepositoryMongo) Name() string { return "mongo" }

func (r *VideoStatsRepositoryMongo) Export(ctx context.Context, table *model.VideoTable) (int, error) {
	if r.coll == nil || table.Len() == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, table.Len())
	for _, v := range table.Rows {
		doc := bson.D{
			{Key: "channel_id", Value: table.ChannelID},
			{Key: "title", Value: v.Title},
			{Key: "published_date", Value: v.PublishedDate.UTC()},
			{Key: "views_count", Value: v.ViewsCount},
			{Key: "like_count", Value: v.LikeCount},
			{Key: "comments_count", Value: v.CommentsCount},
			{Key: "run_id", Value: table.RunID},
			{Key: "collected_at", Value: table.CollectedAt.UTC()},
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "_id", Value: v.VideoID}}).
			SetUpdate(bson.D{{Key: "$set", Value: doc}}).
			SetUpsert(true))
	}
	res, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(res.UpsertedCount + res.MatchedCount), nil
}
