/*

Package piggybank is a client for a time locked savings application running
on the Sui blockchain. A savings object ("piggy bank") is created with a goal
and an unlock time, receives deposits and can be broken open once both the
goal and the unlock time are reached. All custody rules are enforced by an on
chain Move package. This repository reads the object state, derives what a
user can do with it and builds, signs and submits transactions.

Packages worth looking at first are x/piggy for the domain logic and sui for
the chain client. The root package holds the few types shared by all of them.

*/

package piggybank
