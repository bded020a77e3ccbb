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

// shuttleType is the Object used throughout these tests: a plain map[string]interface{} source,
// resolved through schema.ReflectFieldResolver's map branch.
var shuttleType = schema.NewObject(schema.ObjectConfig{
	Name: "Shuttle",
	Fields: func() schema.FieldConfigMap {
		return schema.FieldConfigMap{
			"name":        {Type: schema.NonNullOf(schema.String)},
			"firstFlight": {Type: schema.String},
		}
	},
})

var _ = Describe("Execute", func() {
	var document string

	Context("read, list of objects, static-time (spec.md §8 scenario 1)", func() {
		BeforeEach(func() {
			document = `{ launched { name } }`
		})

		It("emits a single snapshot reflecting the resolver's one-shot list", func() {
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"launched": {
							Type: schema.NonNullOf(schema.ListOf(schema.NonNullOf(shuttleType))),
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return stream.Of([]interface{}{
									map[string]interface{}{"name": "discovery"},
								}), nil
							}),
						},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), document, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			Eventually(observer.Completed).Should(BeTrue())
			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(1))
			Expect(snapshots[0].Errors).To(BeEmpty())
			Expect(snapshots[0]).To(MatchSnapshotJSON(`{"data":{"launched":[{"name":"discovery"}]}}`))
		})
	})

	Context("read, variable-argument filter (spec.md §8 scenario 2)", func() {
		It("lets the resolver filter its source stream by a variable-bound argument", func() {
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"launched": {
							Type: schema.NonNullOf(schema.ListOf(schema.NonNullOf(shuttleType))),
							Args: schema.ArgumentConfigMap{
								"name": {Type: schema.String},
							},
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								all := []map[string]interface{}{
									{"name": "apollo11"},
									{"name": "challenger"},
								}
								name, ok := args.Get("name").(string)
								if !ok {
									out := make([]interface{}, len(all))
									for i, s := range all {
										out[i] = s
									}
									return stream.Of(out), nil
								}
								var filtered []interface{}
								for _, s := range all {
									if s["name"] == name {
										filtered = append(filtered, s)
									}
								}
								return stream.Of(filtered), nil
							}),
						},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			document := `query Launched($name: String) { launched(name: $name) { name firstFlight } }`
			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), document, executor.ExecuteParams{
				Schema:         s,
				VariableValues: schema.NewVariableValues(map[string]interface{}{"name": "apollo11"}),
			}).Subscribe(observer.asObserver())

			Eventually(observer.Completed).Should(BeTrue())
			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(1))
			Expect(snapshots[0]).To(MatchSnapshotJSON(`{"data":{"launched":[{"name":"apollo11","firstFlight":null}]}}`))
		})
	})

	Context("write serialization (spec.md §8 scenario 3)", func() {
		It("runs a mutation field to a single settled snapshot, then completes", func() {
			mutationType := schema.NewObject(schema.ObjectConfig{
				Name: "Mutation",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"createShuttle": {
							Type: shuttleType,
							Args: schema.ArgumentConfigMap{
								"name": {Type: schema.NonNullOf(schema.String)},
							},
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return stream.Of(map[string]interface{}{"name": args.Get("name")}), nil
							}),
						},
					}
				},
			})
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"ping": {Type: schema.NonNullOf(schema.String), Resolve: schema.FieldResolverFunc(func(interface{}, schema.ArgumentValues, schema.ResolveInfo) (interface{}, error) {
							return "pong", nil
						})},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType, Mutation: mutationType})
			Expect(err).NotTo(HaveOccurred())

			document := `mutation { createShuttle(name: "RocketShip") { name } }`
			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), document, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			Eventually(observer.Completed).Should(BeTrue())
			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(1))
			Expect(snapshots[0]).To(MatchSnapshotJSON(`{"data":{"createShuttle":{"name":"RocketShip"}}}`))
		})
	})

	Context("late subscription of a hot source (spec.md §8 scenario 4)", func() {
		It("misses every value the source emitted before Execute's stream subscribed to it", func() {
			source := newHotStream()
			source.emit("a") // emitted before anyone has subscribed -- a late subscriber never sees this

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
			executor.ExecuteSource(context.Background(), `{ value }`, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			// The subscription is held from exactly this point: one emit had already happened.
			Expect(source.subscribed).To(Equal([]int{1}))

			source.emit("b")
			source.emit("c")

			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(2))
			Expect(snapshots[0]).To(MatchSnapshotJSON(`{"data":{"value":"b"}}`))
			Expect(snapshots[1]).To(MatchSnapshotJSON(`{"data":{"value":"c"}}`))
		})
	})

	Context("switch cancels inner subscriptions (spec.md §8 scenario 5)", func() {
		It("unsubscribes the prior field-value stream before subscribing to the next", func() {
			outer := newHotStream()
			innerA := newHotStream()
			innerB := newHotStream()

			emitterType := schema.NewObject(schema.ObjectConfig{
				Name: "Emitter",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"value": {
							Type: schema.NonNullOf(schema.String),
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return source.(*hotStream), nil
							}),
						},
					}
				},
			})
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"currentEmitter": {
							Type: schema.NonNullOf(emitterType),
							Resolve: schema.FieldResolverFunc(func(source interface{}, args schema.ArgumentValues, info schema.ResolveInfo) (interface{}, error) {
								return outer, nil
							}),
						},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), `{ currentEmitter { value } }`, executor.ExecuteParams{Schema: s}).
				Subscribe(observer.asObserver())

			outer.emit(innerA)
			innerA.emit("A-value")
			Expect(innerA.liveSubscriberCount()).To(Equal(1))

			outer.emit(innerB)
			// Switching to B must have torn down A's subscription before (or as part of) establishing B's.
			Expect(innerA.liveSubscriberCount()).To(Equal(0))
			innerB.emit("B-value")
			Expect(innerB.liveSubscriberCount()).To(Equal(1))

			snapshots := observer.Snapshots()
			Expect(len(snapshots)).To(BeNumerically(">=", 2))
			Expect(snapshots[0]).To(MatchSnapshotJSON(`{"data":{"currentEmitter":{"value":"A-value"}}}`))
			Expect(snapshots[len(snapshots)-1]).To(MatchSnapshotJSON(`{"data":{"currentEmitter":{"value":"B-value"}}}`))
		})
	})

	Context("unknown field (spec.md §8 scenario 6)", func() {
		It("errors with a message naming the field and the available fields on its parent type", func() {
			queryType := schema.NewObject(schema.ObjectConfig{
				Name: "Query",
				Fields: func() schema.FieldConfigMap {
					return schema.FieldConfigMap{
						"launched": {Type: schema.NonNullOf(schema.String), Resolve: schema.FieldResolverFunc(func(interface{}, schema.ArgumentValues, schema.ResolveInfo) (interface{}, error) {
							return "", nil
						})},
					}
				},
			})
			s, err := schema.New(schema.SchemaConfig{Query: queryType})
			Expect(err).NotTo(HaveOccurred())

			observer := newCollectObserver()
			executor.ExecuteSource(context.Background(), `{ youDontKnowMe }`, executor.ExecuteParams{
				Schema: s,
				Config: executor.Config{Strict: true},
			}).Subscribe(observer.asObserver())

			Eventually(observer.Completed).Should(BeTrue())
			snapshots := observer.Snapshots()
			Expect(snapshots).To(HaveLen(1))
			Expect(snapshots[0].Errors).To(HaveLen(1))
			Expect(snapshots[0].Errors[0].Message).To(ContainSubstring(`field 'youDontKnowMe' was not found on type 'Query'`))
			Expect(snapshots[0].Errors[0].Message).To(ContainSubstring("launched"))
		})
	})
})
