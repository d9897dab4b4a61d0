package main

import (
	"context"
	"net/http"

	"compass-api/internal/config"
	"compass-api/internal/handler"
	"compass-api/internal/repository"
	"compass-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)

	mapService := service.NewMapService(repo, service.Options{
		ClusterRadius:      config.ClusterRadius,
		MinClusterSize:     config.MinClusterSize,
		MaxClusteringDelta: config.MaxClusteringDelta,
	})

	count, err := mapService.LoadProperties(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load properties")
	}
	log.Info().Int("count", count).Msg("loaded properties")

	mapHandler := handler.NewMapHandler(mapService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/map/state", mapHandler.State)
	r.PUT("/map/viewport", mapHandler.UpdateViewport)
	r.POST("/map/selection/property", mapHandler.SelectProperty)
	r.POST("/map/selection/cluster", mapHandler.SelectCluster)
	r.POST("/map/clusters/:id/expand", mapHandler.ExpandCluster)
	r.GET("/map/fit", mapHandler.FitToProperties)
	r.GET("/map/center", mapHandler.CenterOnProperty)
	r.GET("/properties", mapHandler.ListProperties)
	r.POST("/properties/refresh", mapHandler.RefreshProperties)

	r.Run(config.ServerAddress)
}
