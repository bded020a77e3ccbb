/**
 * Copyright (c) 2024, The riverql Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package executor_test

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/riverql/riverql/executor"
	"github.com/riverql/riverql/schema"
	"github.com/riverql/riverql/stream"
)

var _ = Describe("universal properties (spec.md §8)", func() {
	Describe("idempotence under re-subscription for cold pipelines", func() {
		It("produces identical snapshot sequences for two independent subscriptions", func() {
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"launched": {
							Type: schema.NonNullOf(schema.ListOf(schema.NonNullOf(shuttleType))),
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return stream.Of([]interface{}{
									map[string]interface{}{"name": "discovery"},
									map[string]interface{}{"name": "atlantis"},
								}), nil
							}),
						},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			result := executor.ExecuteSource(context.Background(), `{ launched { name } }`, executor.ExecuteParams{Schema: s})

			first := newCollectObserver()
			result.Subscribe(first.asObserver())
			second := newCollectObserver()
			result.Subscribe(second.asObserver())

			Eventually(first.Completed).Should(BeTrue())
			Eventually(second.Completed).Should(BeTrue())

			firstSnapshots := first.Snapshots()
			secondSnapshots := second.Snapshots()
			Expect(firstSnapshots).To(HaveLen(len(secondSnapshots)))
			for i := range firstSnapshots {
				Expect(firstSnapshots[i]).To(MatchSnapshotJSON(mustSnapshotJSON(secondSnapshots[i])))
			}
		})
	})

	Describe("shape mirrors selection", func() {
		It("only includes response keys actually present in the top-level selection", func() {
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"a": {Type: schema.NonNullOf(schema.String), Resolve: constResolver("a-value")},
						"b": {Type: schema.NonNullOf(schema.String), Resolve: constResolver("b-value")},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), `{ a }`, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			Eventually(observer.Completed).Should(BeTrue())
			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(1))
			_, hasA := snapshots[0].Data.Value("a")
			Expect(hasA).To(BeTrue())
			_, hasB := snapshots[0].Data.Value("b")
			Expect(hasB).To(BeFalse())
		})
	})

	Describe("nullability soundness", func() {
		It("nulls the parent slot and records an error when a Non-Null field resolves to null", func() {
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"required": {
							Type: schema.NonNullOf(schema.String),
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return nil, nil
							}),
						},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), `{ required }`, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			Eventually(observer.Completed).Should(BeTrue())
			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(1))
			Expect(snapshots[0].Data).To(BeNil())
			Expect(snapshots[0].Errors).To(HaveLen(1))
		})
	})

	Describe("list preservation", func() {
		It("keeps the list's length and per-index identity as each element completes", func() {
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"launched": {
							Type: schema.NonNullOf(schema.ListOf(schema.NonNullOf(shuttleType))),
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return stream.Of([]interface{}{
									map[string]interface{}{"name": "discovery"},
									map[string]interface{}{"name": "atlantis"},
									map[string]interface{}{"name": "endeavour"},
								}), nil
							}),
						},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), `{ launched { name } }`, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			Eventually(observer.Completed).Should(BeTrue())
			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(1))
			launchedValue, _ := snapshots[0].Data.Value("launched")
			launched, _ := launchedValue.([]interface{})
			Expect(launched).To(HaveLen(3))
			first, _ := launched[0].(*executor.ResponseObject)
			name, _ := first.Value("name")
			Expect(name).To(Equal("discovery"))
		})
	})

	Describe("cancellation completeness", func() {
		It("leaves no subscriber on the resolver's own stream once the caller unsubscribes", func() {
			source := newHotStream()

			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"value": {
							Type: schema.NonNullOf(schema.String),
							Resolve: schema.FieldResolverFunc(func(source_ interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return source, nil
							}),
						},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			observer := newCollectObserver()
			sub := executor.ExecuteSource(context.Background(), `{ value }`, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			source.emit("first")
			Expect(source.liveSubscriberCount()).To(Equal(1))

			sub.Unsubscribe()
			Expect(source.liveSubscriberCount()).To(Equal(0))
		})
	})
})

func constResolver(value string) schema.FieldResolver {
	return schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
		return value, nil
	})
}

func mustSnapshotJSON(snapshot executor.Snapshot) string {
	b, err := snapshot.MarshalJSON()
	Expect(err).NotTo(HaveOccurred())
	return string(b)
}
