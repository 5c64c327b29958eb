package markov

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestStreamMatchesGenerate(t *testing.T) {
	corpus := strings.TrimSpace(strings.Repeat(testSentence+" ", 3))
	table := buildTestTable(t, corpus, 2, false)

	want, err := seededGenerator(table, 11).Generate(WithLength(12))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	stream, err := seededGenerator(table, 11).Stream(context.Background(), WithLength(12))
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	var got []string
	for tok := range stream {
		got = append(got, tok)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stream() = %v, want %v", got, want)
	}
}

func TestStreamStartErrors(t *testing.T) {
	table := buildTestTable(t, testSentence, 1, false)
	g := seededGenerator(table, 1)

	if _, err := g.Stream(context.Background(), WithStart("unseen")); !errors.Is(err, ErrUnknownContext) {
		t.Errorf("Stream() error = %v, want %v", err, ErrUnknownContext)
	}
	if _, err := g.Stream(context.Background(), WithLength(0)); err == nil {
		t.Error("Stream(WithLength(0)) expected an error but got none")
	}
}

func TestStreamCancellation(t *testing.T) {
	table := buildTestTable(t, testSentence, 1, false)
	g := seededGenerator(table, 1)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := g.Stream(ctx, WithLength(100000))
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	if _, ok := <-stream; !ok {
		t.Fatal("stream closed before any token was received")
	}
	cancel()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-stream:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("stream did not close after cancellation")
		}
	}
}

func TestStreamClosedEnd(t *testing.T) {
	// A dead-ended walk closes the channel early instead of surfacing an
	// error; the tokens delivered up to that point are still valid.
	table := buildTestTable(t, testSentence, 2, false)
	g := seededGenerator(table, 5)

	stream, err := g.Stream(context.Background(), WithStart("the lazy"), WithLength(10))
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	var got []string
	for tok := range stream {
		got = append(got, tok)
	}

	want := []string{"the", "lazy", "dog", "dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Stream() = %v, want %v", got, want)
	}
}
