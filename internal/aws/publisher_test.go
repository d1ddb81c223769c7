package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type capturingSQS struct {
	inputs []*sqs.SendMessageInput
	err    error
}

func (c *capturingSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	c.inputs = append(c.inputs, params)
	if c.err != nil {
		return nil, c.err
	}
	return &sqs.SendMessageOutput{}, nil
}

func TestSendOrderCaptured(t *testing.T) {
	client := &capturingSQS{}
	p := NewPublisher(client, "https://sqs.ap-south-1.amazonaws.com/123/orders")

	body := `{"order_id":"ord_1"}`
	attrs := map[string]string{"order_id": "ord_1", "correlation_id": "corr-1"}
	if err := p.SendOrderCaptured(context.Background(), body, attrs); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("expected 1 send, got %d", len(client.inputs))
	}
	in := client.inputs[0]
	if *in.QueueUrl != p.QueueURL {
		t.Fatalf("unexpected queue url: %s", *in.QueueUrl)
	}
	if *in.MessageBody != body {
		t.Fatalf("unexpected body: %s", *in.MessageBody)
	}
	attr, ok := in.MessageAttributes["order_id"]
	if !ok || *attr.StringValue != "ord_1" || *attr.DataType != "String" {
		t.Fatalf("unexpected message attributes: %+v", in.MessageAttributes)
	}
}

func TestSendOrderCapturedError(t *testing.T) {
	client := &capturingSQS{err: errors.New("queue unavailable")}
	p := NewPublisher(client, "https://sqs.ap-south-1.amazonaws.com/123/orders")

	if err := p.SendOrderCaptured(context.Background(), "{}", nil); err == nil {
		t.Fatal("expected error from failed send")
	}
}
