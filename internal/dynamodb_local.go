package internal

import (
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/ory/dockertest"
)

func PortActive(network, address string, timeout int) error {
	for i := 0; i < timeout; i++ {
		s, err := net.Dial(network, address)
		if err == nil {
			s.Close()
			return nil
		}
		time.Sleep(time.Second)
	}
	return errors.New("port is not open")
}

// DynamodbStart runs amazon/dynamodb-local in docker and returns a client
// pointed at it. The test is skipped in -short mode or when docker is not
// reachable.
func DynamodbStart(t *testing.T) (func(), *dynamodb.DynamoDB) {
	t.Helper()
	if testing.Short() {
		t.Skip("dynamodb-local needs docker; skipped in -short mode")
	}

	os.Setenv("AWS_REGION", "us-east-1")
	os.Setenv("AWS_ACCESS_KEY_ID", "x")
	os.Setenv("AWS_SECRET_ACCESS_KEY", "x")

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Could not connect to docker: %s", err)
	}
	if _, err := pool.Client.Info(); err != nil {
		t.Skipf("Docker is not available: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository:   "amazon/dynamodb-local",
		Tag:          "latest",
		ExposedPorts: []string{"8000"},
	})
	if err != nil {
		t.Fatalf("Could not start resource: %s\n", err)
	}

	err = PortActive("tcp", resource.GetHostPort("8000/tcp"), 10)
	if err != nil {
		t.Fatalf("Could not connect to resource: %s\n", resource.GetHostPort("8000/tcp"))
	}

	dynamodbURL := "http://" + resource.GetHostPort("8000/tcp")
	closer := func() {
		if err := pool.Purge(resource); err != nil {
			t.Fatal(err)
		}
	}

	client := dynamodb.New(
		session.New(),
		&aws.Config{
			Endpoint: aws.String(dynamodbURL),
		},
	)

	return closer, client
}

// CreateHashTable creates a table keyed by a single string attribute "id".
func CreateHashTable(t *testing.T, client *dynamodb.DynamoDB, table string) {
	t.Helper()
	_, err := client.CreateTable(&dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []*dynamodb.AttributeDefinition{
			{
				AttributeName: aws.String("id"),
				AttributeType: aws.String("S"),
			},
		},
		KeySchema: []*dynamodb.KeySchemaElement{
			{
				AttributeName: aws.String("id"),
				KeyType:       aws.String("HASH"),
			},
		},
		ProvisionedThroughput: &dynamodb.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	})
	if err != nil {
		t.Fatalf("Error while creating %s table: %v\n", table, err)
	}
}
