package entity

type QueueMessage struct {
	ID            string
	Body          []byte
	ReceiptHandle string
	ReceiveCount  int
}
