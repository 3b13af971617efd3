package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"figma-insights-api/internal/handlers"
	"figma-insights-api/internal/middleware"
	"figma-insights-api/pkg/lambda"
)

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Convert API Gateway event to generic request
	req, err := lambda.FromAPIGateway(event)
	if err != nil {
		return lambda.ToAPIGateway(lambda.JSONResponse(
			http.StatusBadRequest,
			[]byte(`{"error":"`+handlers.MsgMissingFields+`"}`),
			middleware.CORSHeaders(),
		)), nil
	}

	container, err := lambda.GetConnectionManager().GetContainer(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to initialize container")
		return lambda.ToAPIGateway(lambda.JSONResponse(
			http.StatusInternalServerError,
			[]byte(`{"error":"`+handlers.MsgInternalError+`"}`),
			middleware.CORSHeaders(),
		)), nil
	}

	analyzeHandler := handlers.NewAnalyzeHandler(container.AnalysisService, container.Config.Server.MaxBodyBytes)

	var resp *lambda.Response
	switch req.Path {
	case handlers.AnalyzePath:
		resp, err = analyzeHandler.HandleAnalyze(ctx, req)
	default:
		resp = lambda.NotFound(middleware.CORSHeaders())
	}

	if err != nil {
		return lambda.ToAPIGateway(lambda.JSONResponse(
			http.StatusInternalServerError,
			[]byte(`{"error":"`+handlers.MsgInternalError+`"}`),
			middleware.CORSHeaders(),
		)), nil
	}

	return lambda.ToAPIGateway(resp), nil
}

func main() {
	awslambda.Start(handler)
}
