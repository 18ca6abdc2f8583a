/*
Package node is the identity layer for writing to and reading from a chain.
A node is known by a name and mines blocks under the address derived from
that name.

READING AND NOTES

- Articles
[Ethereum Mining](https://ethereum.org/en/developers/docs/consensus-mechanisms/pow/mining/) - Ethereum Website
[Hashcash - A Denial of Service Counter-Measure](http://www.hashcash.org/papers/hashcash.pdf) - Adam Back
*/
package node
