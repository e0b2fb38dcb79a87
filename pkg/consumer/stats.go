package consumer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/adjust/rmq/v5"
	"github.com/travigo/cifparser/pkg/database"
	"github.com/travigo/cifparser/pkg/redis_client"
)

type StatsServerHandler struct {
	redisConnection rmq.Connection
}

func NewStatsHandler(connection rmq.Connection) *StatsServerHandler {
	return &StatsServerHandler{redisConnection: connection}
}

func (handler *StatsServerHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	layout := request.FormValue("layout")
	refresh := request.FormValue("refresh")

	queues, err := handler.redisConnection.GetOpenQueues()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	stats, err := handler.redisConnection.CollectStats(queues)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	fmt.Fprint(writer, stats.GetHtml(layout, refresh))
}

type HealthHandler struct {
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (handler *HealthHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if err := checkHealth(request.Context()); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(writer, err)

		return
	}

	writer.WriteHeader(http.StatusOK)
	fmt.Fprint(writer, "OK")
}

func checkHealth(ctx context.Context) error {
	if redis_client.Client == nil {
		return errors.New("redis is not connected")
	}
	if err := redis_client.Client.Ping(ctx).Err(); err != nil {
		return err
	}

	if database.MongoGlobalInstance == nil {
		return errors.New("mongodb is not connected")
	}

	return database.MongoGlobalInstance.Client.Ping(ctx, nil)
}
