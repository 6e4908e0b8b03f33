// Package services holds the business logic of the blog store: user
// registration and login, tag upserts, post mutation with tag reconciliation
// and the aggregate post/tag queries.
package services

//go:generate mockgen -destination=mocks.go -package=services . UserReader,UserWriter,JWTGenerator,TagReader,TagWriter,PostTagReader,PostTagWriter,PostReader,TxManager,PostWriter,TagReconciler,PostEnricher,KafkaWriter
