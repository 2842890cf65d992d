/*
Package utils provides the decorators shared by every transaction: a
savepoint that makes each transaction all or nothing, panic recovery,
logging, metrics and action tagging.
*/
package utils
